package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Street    string         `gorm:"size:200" json:"street"`
	ZipCode   string         `gorm:"size:10" json:"zip_code"`
	City      string         `gorm:"size:100" json:"city"`
	Email     string         `gorm:"size:200" json:"email"`
	Phone     string         `gorm:"size:50" json:"phone"`
	Notes     string         `gorm:"size:500" json:"notes"`
}

// PriceItem is one entry of the price list, e.g. clearing per round or
// gritting per square meter.
type PriceItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
	Name      string          `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Unit      string          `gorm:"not null;size:50" json:"unit"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Active    bool            `gorm:"default:true" json:"active"`
}

type InvoiceTemplate struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Name       string         `gorm:"uniqueIndex;not null;size:100" json:"name"`
	HeaderText string         `gorm:"size:2000" json:"header_text"`
	FooterText string         `gorm:"size:2000" json:"footer_text"`
	IsDefault  bool           `gorm:"default:false" json:"is_default"`
}

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

type Invoice struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Number      string           `gorm:"uniqueIndex;not null;size:20" json:"number"`
	Reference   string           `gorm:"uniqueIndex;not null;size:36" json:"reference"`
	CustomerID  uint             `gorm:"not null;index" json:"customer_id"`
	Customer    *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	TemplateID  *uint            `gorm:"index" json:"template_id"`
	Template    *InvoiceTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	PeriodStart time.Time        `gorm:"not null;type:date" json:"period_start"`
	PeriodEnd   time.Time        `gorm:"not null;type:date" json:"period_end"`
	NetAmount   decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"net_amount"`
	TaxRate     decimal.Decimal  `gorm:"type:numeric(5,2);not null" json:"tax_rate"`
	TaxAmount   decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"tax_amount"`
	GrossAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"gross_amount"`
	Status      InvoiceStatus    `gorm:"not null;size:20;default:draft" json:"status"`
	CreatedBy   uint             `gorm:"not null" json:"created_by"`
}

// CanTransitionTo enforces draft -> sent -> paid.
func (i *Invoice) CanTransitionTo(next InvoiceStatus) bool {
	switch i.Status {
	case InvoiceDraft:
		return next == InvoiceSent
	case InvoiceSent:
		return next == InvoicePaid
	default:
		return false
	}
}
