package database

import (
	"context"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"

	"gorm.io/gorm"
)

// ReportStore is the gorm-backed read side of the report builder. The three
// reads run on the shared connection without a transaction; see the builder
// for the consistency tradeoff.
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) WorkLogsInRange(ctx context.Context, from, to time.Time) ([]models.WorkLog, error) {
	var logs []models.WorkLog
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Street").
		Where("work_logs.date >= ? AND work_logs.date <= ?", from, to).
		Order("work_logs.date asc, work_logs.start_time asc").
		Find(&logs).Error
	return logs, err
}

func (s *ReportStore) StreetsWithHierarchy(ctx context.Context) ([]models.Street, error) {
	var streets []models.Street
	err := s.db.WithContext(ctx).
		Preload("Area").
		Preload("Area.City").
		Order("streets.name asc").
		Find(&streets).Error
	return streets, err
}

func (s *ReportStore) StatusesInRange(ctx context.Context, from, to time.Time) ([]models.StreetStatus, error) {
	var statuses []models.StreetStatus
	err := s.db.WithContext(ctx).
		Where("street_statuses.date >= ? AND street_statuses.date <= ?", from, to).
		Order("street_statuses.date asc").
		Find(&statuses).Error
	return statuses, err
}
