package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"
	"github.com/Taylan474/winter-service-manager-sub001/worktime"
)

// Store supplies the three reads the builder joins. The reads are issued
// without a surrounding transaction; a mutation landing between them can
// produce a report that mixes snapshots. Reports are point-in-time
// summaries created manually, so that window is accepted.
type Store interface {
	WorkLogsInRange(ctx context.Context, from, to time.Time) ([]models.WorkLog, error)
	StreetsWithHierarchy(ctx context.Context) ([]models.Street, error)
	StatusesInRange(ctx context.Context, from, to time.Time) ([]models.StreetStatus, error)
}

// WorkLogRow is one flattened work log in the payload.
type WorkLogRow struct {
	UserName   string  `json:"user_name"`
	Date       string  `json:"date"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	StreetName string  `json:"street_name,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	Minutes    int     `json:"minutes"`
	Hours      float64 `json:"hours"`
}

type StatusHistoryRow struct {
	Date          string                   `json:"date"`
	Status        models.StreetStatusValue `json:"status"`
	StartedAt     *time.Time               `json:"started_at,omitempty"`
	FinishedAt    *time.Time               `json:"finished_at,omitempty"`
	AssignedUsers models.UserIDList        `json:"assigned_users"`
	CurrentRound  int                      `json:"current_round"`
	TotalRounds   int                      `json:"total_rounds"`
}

type StreetRow struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	Area          string             `json:"area,omitempty"`
	City          string             `json:"city,omitempty"`
	StatusHistory []StatusHistoryRow `json:"status_history"`
}

type Summary struct {
	TotalHours        float64 `json:"total_hours"`
	TotalStreets      int     `json:"total_streets"`
	StreetsCompleted  int     `json:"streets_completed"`
	StreetsInProgress int     `json:"streets_in_progress"`
	StreetsOpen       int     `json:"streets_open"`
}

type Meta struct {
	GeneratedAt time.Time `json:"generated_at"`
	GeneratedBy uint      `json:"generated_by"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	CustomerID  *uint     `json:"customer_id,omitempty"`
}

// Payload is the structured report snapshot handed to persistence and to
// the document renderer. Its JSON shape must round-trip unchanged.
type Payload struct {
	WorkLogs []WorkLogRow `json:"work_logs"`
	Streets  []StreetRow  `json:"streets"`
	Summary  Summary      `json:"summary"`
	Meta     Meta         `json:"metadata"`
}

const fallbackUserName = "Unbekannt"
const dateLayout = "2006-01-02"

type Builder struct {
	store Store
	now   func() time.Time
}

func NewBuilder(store Store) *Builder {
	return &Builder{store: store, now: time.Now}
}

// Build joins work logs, the street inventory and the daily status history
// over [from, to] into one payload. If any of the three reads fails the
// whole build fails; persisting the resulting report is the caller's
// separate step, so no partial report is ever written.
func (b *Builder) Build(ctx context.Context, from, to time.Time, customerID *uint, generatedBy uint) (*Payload, error) {
	logs, err := b.store.WorkLogsInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load work logs: %w", err)
	}
	streets, err := b.store.StreetsWithHierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("load streets: %w", err)
	}
	statuses, err := b.store.StatusesInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load street statuses: %w", err)
	}

	payload := &Payload{
		WorkLogs: make([]WorkLogRow, 0, len(logs)),
		Streets:  make([]StreetRow, 0, len(streets)),
		Meta: Meta{
			GeneratedAt: b.now(),
			GeneratedBy: generatedBy,
			PeriodStart: from.Format(dateLayout),
			PeriodEnd:   to.Format(dateLayout),
			CustomerID:  customerID,
		},
	}

	var totalMinutes int
	for _, log := range logs {
		name := log.User.DisplayName()
		if name == "" {
			name = fallbackUserName
		}
		streetName := ""
		if log.Street != nil {
			streetName = log.Street.Name
		}
		minutes := worktime.Duration(log.StartTime, log.EndTime)
		totalMinutes += minutes
		payload.WorkLogs = append(payload.WorkLogs, WorkLogRow{
			UserName:   name,
			Date:       log.Date.Format(dateLayout),
			StartTime:  log.StartTime,
			EndTime:    log.EndTime,
			StreetName: streetName,
			Notes:      log.Notes,
			Minutes:    minutes,
			Hours:      float64(minutes) / 60.0,
		})
	}
	payload.Summary.TotalHours = float64(totalMinutes) / 60.0

	statusesByStreet := make(map[uint][]models.StreetStatus)
	for _, st := range statuses {
		statusesByStreet[st.StreetID] = append(statusesByStreet[st.StreetID], st)
	}

	for _, street := range streets {
		row := StreetRow{ID: street.ID, Name: street.Name}
		if street.Area != nil {
			row.Area = street.Area.Name
			if street.Area.City != nil {
				row.City = street.Area.City.Name
			}
		}
		history := statusesByStreet[street.ID]
		row.StatusHistory = make([]StatusHistoryRow, 0, len(history))
		for _, st := range history {
			row.StatusHistory = append(row.StatusHistory, StatusHistoryRow{
				Date:          st.Date.Format(dateLayout),
				Status:        st.Status,
				StartedAt:     st.StartedAt,
				FinishedAt:    st.FinishedAt,
				AssignedUsers: st.AssignedUsers,
				CurrentRound:  st.CurrentRound,
				TotalRounds:   st.TotalRounds,
			})
		}
		sortHistory(row.StatusHistory)
		payload.Streets = append(payload.Streets, row)

		if latest, ok := latestStatus(row.StatusHistory); ok {
			payload.Summary.TotalStreets++
			switch latest {
			case models.StatusDone:
				payload.Summary.StreetsCompleted++
			case models.StatusEnRoute:
				payload.Summary.StreetsInProgress++
			default:
				payload.Summary.StreetsOpen++
			}
		}
	}

	return payload, nil
}

// latestStatus picks the history row with the greatest date string. Two
// rows on the same date should not exist (the status table is unique per
// street and date), but if duplicates ever slip in, the last one
// encountered wins. Known limitation, kept deterministic.
func latestStatus(history []StatusHistoryRow) (models.StreetStatusValue, bool) {
	if len(history) == 0 {
		return "", false
	}
	best := history[0]
	for _, row := range history[1:] {
		if row.Date >= best.Date {
			best = row
		}
	}
	return best.Status, true
}

func sortHistory(history []StatusHistoryRow) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date < history[j].Date
	})
}
