package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type StreetStatusValue string

const (
	StatusOpen    StreetStatusValue = "open"
	StatusEnRoute StreetStatusValue = "enroute"
	StatusDone    StreetStatusValue = "done"
)

// UserIDList is stored as a JSON array column. Postgres jsonb keeps the
// assignment sets queryable without a join table.
type UserIDList []uint

func (l UserIDList) Value() (driver.Value, error) {
	if l == nil {
		l = UserIDList{}
	}
	return json.Marshal(l)
}

func (l *UserIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UserIDList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for UserIDList", value)
	}
	return json.Unmarshal(data, l)
}

func (l UserIDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Intersect returns the members of l that are also in keep, preserving
// the order of l.
func (l UserIDList) Intersect(keep UserIDList) UserIDList {
	out := UserIDList{}
	for _, v := range l {
		if keep.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// StreetStatus is the current clearance state of one street on one calendar
// day, unique per (street, date). Rows are never deleted; they are the
// status history.
type StreetStatus struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	StreetID      uint              `gorm:"not null;index;uniqueIndex:idx_status_street_date" json:"street_id"`
	Street        *Street           `gorm:"foreignKey:StreetID" json:"street,omitempty"`
	Date          time.Time         `gorm:"not null;type:date;uniqueIndex:idx_status_street_date;index" json:"date"`
	Status        StreetStatusValue `gorm:"not null;size:20;default:open" json:"status"`
	StartedAt     *time.Time        `json:"started_at"`
	FinishedAt    *time.Time        `json:"finished_at"`
	AssignedUsers UserIDList        `gorm:"type:jsonb" json:"assigned_users"`
	CurrentRound  int               `gorm:"default:1" json:"current_round"`
	TotalRounds   int               `gorm:"default:1" json:"total_rounds"`
}

// StreetStatusRound is the per-round history of a street/day: one row per
// completed or running clearance pass. Reconciliation prunes or deletes
// these alongside the parent status row.
type StreetStatusRound struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	StreetID      uint              `gorm:"not null;index;uniqueIndex:idx_round_street_date_round" json:"street_id"`
	Date          time.Time         `gorm:"not null;type:date;uniqueIndex:idx_round_street_date_round" json:"date"`
	Round         int               `gorm:"not null;uniqueIndex:idx_round_street_date_round" json:"round"`
	Status        StreetStatusValue `gorm:"not null;size:20" json:"status"`
	StartedAt     *time.Time        `json:"started_at"`
	FinishedAt    *time.Time        `json:"finished_at"`
	AssignedUsers UserIDList        `gorm:"type:jsonb" json:"assigned_users"`
}
