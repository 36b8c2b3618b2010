package database

import (
	"context"
	"errors"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"

	"gorm.io/gorm"
)

// ReconcileStore runs on the root connection. A worker deleting their own
// log must still let reconciliation see every other user's logs for the
// street and day, so these queries are not scoped to the requesting user.
type ReconcileStore struct {
	db *gorm.DB
}

func NewReconcileStore(db *gorm.DB) *ReconcileStore {
	return &ReconcileStore{db: db}
}

func (s *ReconcileStore) RemainingUserIDs(ctx context.Context, streetID uint, date time.Time) (models.UserIDList, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.WorkLog{}).
		Where("street_id = ? AND date = ?", streetID, date).
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return models.UserIDList(ids), nil
}

func (s *ReconcileStore) GetStatus(ctx context.Context, streetID uint, date time.Time) (*models.StreetStatus, error) {
	var status models.StreetStatus
	err := s.db.WithContext(ctx).
		Where("street_id = ? AND date = ?", streetID, date).
		First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *ReconcileStore) SaveStatus(ctx context.Context, status *models.StreetStatus) error {
	return s.db.WithContext(ctx).Save(status).Error
}

func (s *ReconcileStore) ListRounds(ctx context.Context, streetID uint, date time.Time) ([]models.StreetStatusRound, error) {
	var rounds []models.StreetStatusRound
	err := s.db.WithContext(ctx).
		Where("street_id = ? AND date = ?", streetID, date).
		Order("round asc").
		Find(&rounds).Error
	return rounds, err
}

func (s *ReconcileStore) SaveRound(ctx context.Context, round *models.StreetStatusRound) error {
	return s.db.WithContext(ctx).Save(round).Error
}

func (s *ReconcileStore) DeleteRounds(ctx context.Context, streetID uint, date time.Time) error {
	return s.db.WithContext(ctx).
		Where("street_id = ? AND date = ?", streetID, date).
		Delete(&models.StreetStatusRound{}).Error
}
