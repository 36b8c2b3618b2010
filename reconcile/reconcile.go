package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"
)

// Store is the elevated-privilege view reconciliation runs against. It must
// see every user's work logs for the street and day, regardless of who
// triggered the deletion.
type Store interface {
	RemainingUserIDs(ctx context.Context, streetID uint, date time.Time) (models.UserIDList, error)
	GetStatus(ctx context.Context, streetID uint, date time.Time) (*models.StreetStatus, error)
	SaveStatus(ctx context.Context, status *models.StreetStatus) error
	ListRounds(ctx context.Context, streetID uint, date time.Time) ([]models.StreetStatusRound, error)
	SaveRound(ctx context.Context, round *models.StreetStatusRound) error
	DeleteRounds(ctx context.Context, streetID uint, date time.Time) error
}

type Reconciler struct {
	store Store
}

func New(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile recomputes the street's current-day status and assignment set
// from the work logs that remain after a deletion. With no logs left the
// day resets to open and its round history is dropped; otherwise the
// assignment sets on the status row and every round row shrink to the users
// still represented. Missing status row means nothing to do.
//
// Callers treat errors as best-effort: the triggering deletion stands even
// when reconciliation fails.
func (r *Reconciler) Reconcile(ctx context.Context, streetID uint, date time.Time) error {
	status, err := r.store.GetStatus(ctx, streetID, date)
	if err != nil {
		return fmt.Errorf("load status for street %d: %w", streetID, err)
	}
	if status == nil {
		return nil
	}

	remaining, err := r.store.RemainingUserIDs(ctx, streetID, date)
	if err != nil {
		return fmt.Errorf("load remaining users for street %d: %w", streetID, err)
	}

	if len(remaining) == 0 {
		status.Status = models.StatusOpen
		status.AssignedUsers = models.UserIDList{}
		status.StartedAt = nil
		status.FinishedAt = nil
		status.CurrentRound = 1
		if err := r.store.SaveStatus(ctx, status); err != nil {
			return fmt.Errorf("reset status for street %d: %w", streetID, err)
		}
		if err := r.store.DeleteRounds(ctx, streetID, date); err != nil {
			return fmt.Errorf("delete round history for street %d: %w", streetID, err)
		}
		return nil
	}

	status.AssignedUsers = status.AssignedUsers.Intersect(remaining)
	if err := r.store.SaveStatus(ctx, status); err != nil {
		return fmt.Errorf("update status for street %d: %w", streetID, err)
	}

	rounds, err := r.store.ListRounds(ctx, streetID, date)
	if err != nil {
		return fmt.Errorf("load round history for street %d: %w", streetID, err)
	}
	for i := range rounds {
		pruned := rounds[i].AssignedUsers.Intersect(remaining)
		if len(pruned) == len(rounds[i].AssignedUsers) {
			continue
		}
		rounds[i].AssignedUsers = pruned
		if err := r.store.SaveRound(ctx, &rounds[i]); err != nil {
			return fmt.Errorf("prune round %d for street %d: %w", rounds[i].Round, streetID, err)
		}
	}
	return nil
}
