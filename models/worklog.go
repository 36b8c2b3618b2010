package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkLog is one recorded work interval of a single worker against a street
// on a calendar date. StartTime and EndTime are wall-clock "HH:MM" values;
// an end before the start means the shift ran past midnight.
type WorkLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StreetID  *uint          `gorm:"index" json:"street_id"`
	Street    *Street        `gorm:"foreignKey:StreetID" json:"street,omitempty"`
	Date      time.Time      `gorm:"not null;type:date;index" json:"date"`
	StartTime string         `gorm:"not null;size:5" json:"start_time"`
	EndTime   string         `gorm:"not null;size:5" json:"end_time"`
	Notes     string         `gorm:"size:500" json:"notes"`
}

// IsPublicContract reports whether the log belongs to a public-contract
// street. Logs without a street (yard work, equipment maintenance) count
// as private.
func (w *WorkLog) IsPublicContract() bool {
	return w.Street != nil && w.Street.PublicContract
}
