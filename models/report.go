package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type ReportType string

const (
	ReportDaily       ReportType = "daily"
	ReportWeekly      ReportType = "weekly"
	ReportMonthly     ReportType = "monthly"
	ReportCustom      ReportType = "custom"
	ReportWorkSummary ReportType = "work_summary"
)

type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportFinalized ReportStatus = "finalized"
	ReportArchived  ReportStatus = "archived"
)

// Report is a persisted aggregation snapshot. The payload is written once on
// creation and never mutated afterwards; only Status moves through
// draft -> finalized -> archived. Corrections are new reports.
type Report struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	Number      string          `gorm:"uniqueIndex;not null;size:20" json:"number"`
	Reference   string          `gorm:"uniqueIndex;not null;size:36" json:"reference"`
	Type        ReportType      `gorm:"not null;size:20" json:"type"`
	Title       string          `gorm:"not null;size:200" json:"title"`
	PeriodStart time.Time       `gorm:"not null;type:date" json:"period_start"`
	PeriodEnd   time.Time       `gorm:"not null;type:date" json:"period_end"`
	CustomerID  *uint           `gorm:"index" json:"customer_id"`
	Customer    *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Payload     json.RawMessage `gorm:"type:jsonb;not null" json:"payload,omitempty"`
	Status      ReportStatus    `gorm:"not null;size:20;default:draft" json:"status"`
	CreatedBy   uint            `gorm:"not null" json:"created_by"`
	Creator     *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

// CanTransitionTo enforces draft -> finalized -> archived.
func (r *Report) CanTransitionTo(next ReportStatus) bool {
	switch r.Status {
	case ReportDraft:
		return next == ReportFinalized
	case ReportFinalized:
		return next == ReportArchived
	default:
		return false
	}
}

// NumberSequence backs the human-readable RE-/BR- numbers: one row per
// (scope, year), bumped under a row lock.
type NumberSequence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Scope     string    `gorm:"not null;size:10;uniqueIndex:idx_seq_scope_year" json:"scope"`
	Year      int       `gorm:"not null;uniqueIndex:idx_seq_scope_year" json:"year"`
	LastValue int       `gorm:"not null;default:0" json:"last_value"`
}
