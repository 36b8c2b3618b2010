package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	remaining models.UserIDList
	status    *models.StreetStatus
	rounds    []models.StreetStatusRound

	remainingErr error
	statusErr    error

	savedStatus   *models.StreetStatus
	savedRounds   []models.StreetStatusRound
	deletedRounds bool
}

func (f *fakeStore) RemainingUserIDs(ctx context.Context, streetID uint, date time.Time) (models.UserIDList, error) {
	return f.remaining, f.remainingErr
}

func (f *fakeStore) GetStatus(ctx context.Context, streetID uint, date time.Time) (*models.StreetStatus, error) {
	return f.status, f.statusErr
}

func (f *fakeStore) SaveStatus(ctx context.Context, status *models.StreetStatus) error {
	f.savedStatus = status
	return nil
}

func (f *fakeStore) ListRounds(ctx context.Context, streetID uint, date time.Time) ([]models.StreetStatusRound, error) {
	return f.rounds, nil
}

func (f *fakeStore) SaveRound(ctx context.Context, round *models.StreetStatusRound) error {
	f.savedRounds = append(f.savedRounds, *round)
	return nil
}

func (f *fakeStore) DeleteRounds(ctx context.Context, streetID uint, date time.Time) error {
	f.deletedRounds = true
	return nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}

func TestReconcile_NoStatusRowIsNoop(t *testing.T) {
	store := &fakeStore{}
	r := New(store)

	require.NoError(t, r.Reconcile(context.Background(), 1, day(t, "2026-01-12")))
	assert.Nil(t, store.savedStatus)
	assert.False(t, store.deletedRounds)
}

func TestReconcile_NoRemainingLogsResetsDay(t *testing.T) {
	started := time.Now()
	finished := started.Add(2 * time.Hour)
	store := &fakeStore{
		remaining: models.UserIDList{},
		status: &models.StreetStatus{
			StreetID:      1,
			Date:          day(t, "2026-01-12"),
			Status:        models.StatusDone,
			StartedAt:     &started,
			FinishedAt:    &finished,
			AssignedUsers: models.UserIDList{1, 2, 3},
			CurrentRound:  3,
			TotalRounds:   3,
		},
	}
	r := New(store)

	require.NoError(t, r.Reconcile(context.Background(), 1, day(t, "2026-01-12")))

	require.NotNil(t, store.savedStatus)
	assert.Equal(t, models.StatusOpen, store.savedStatus.Status)
	assert.Empty(t, store.savedStatus.AssignedUsers)
	assert.Nil(t, store.savedStatus.StartedAt)
	assert.Nil(t, store.savedStatus.FinishedAt)
	assert.Equal(t, 1, store.savedStatus.CurrentRound)
	assert.True(t, store.deletedRounds, "round history is dropped with the last log")
}

func TestReconcile_RemainingUsersPruneAssignments(t *testing.T) {
	// Original assignment was {1,2,3}; user 3's logs are gone.
	store := &fakeStore{
		remaining: models.UserIDList{1, 2},
		status: &models.StreetStatus{
			StreetID:      1,
			Date:          day(t, "2026-01-12"),
			Status:        models.StatusEnRoute,
			AssignedUsers: models.UserIDList{1, 2, 3},
			CurrentRound:  2,
			TotalRounds:   3,
		},
		rounds: []models.StreetStatusRound{
			{Round: 1, AssignedUsers: models.UserIDList{1, 3}},
			{Round: 2, AssignedUsers: models.UserIDList{2}},
		},
	}
	r := New(store)

	require.NoError(t, r.Reconcile(context.Background(), 1, day(t, "2026-01-12")))

	require.NotNil(t, store.savedStatus)
	assert.Equal(t, models.UserIDList{1, 2}, store.savedStatus.AssignedUsers)
	assert.Equal(t, models.StatusEnRoute, store.savedStatus.Status, "status value untouched while logs remain")
	assert.Equal(t, 2, store.savedStatus.CurrentRound)
	assert.False(t, store.deletedRounds)

	// Round 1 loses user 3, round 2 is already consistent and not rewritten.
	require.Len(t, store.savedRounds, 1)
	assert.Equal(t, 1, store.savedRounds[0].Round)
	assert.Equal(t, models.UserIDList{1}, store.savedRounds[0].AssignedUsers)
}

func TestReconcile_KeepsUsersStillRepresented(t *testing.T) {
	store := &fakeStore{
		remaining: models.UserIDList{5},
		status: &models.StreetStatus{
			AssignedUsers: models.UserIDList{5},
		},
	}
	r := New(store)

	require.NoError(t, r.Reconcile(context.Background(), 1, day(t, "2026-01-12")))
	assert.Equal(t, models.UserIDList{5}, store.savedStatus.AssignedUsers)
}

func TestReconcile_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("permission denied")

	r := New(&fakeStore{statusErr: boom})
	err := r.Reconcile(context.Background(), 1, day(t, "2026-01-12"))
	assert.ErrorIs(t, err, boom)

	r = New(&fakeStore{status: &models.StreetStatus{}, remainingErr: boom})
	err = r.Reconcile(context.Background(), 1, day(t, "2026-01-12"))
	assert.ErrorIs(t, err, boom)
}
