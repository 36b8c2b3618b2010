package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	logs     []models.WorkLog
	streets  []models.Street
	statuses []models.StreetStatus

	logsErr     error
	streetsErr  error
	statusesErr error
}

func (f *fakeStore) WorkLogsInRange(ctx context.Context, from, to time.Time) ([]models.WorkLog, error) {
	return f.logs, f.logsErr
}

func (f *fakeStore) StreetsWithHierarchy(ctx context.Context) ([]models.Street, error) {
	return f.streets, f.streetsErr
}

func (f *fakeStore) StatusesInRange(ctx context.Context, from, to time.Time) ([]models.StreetStatus, error) {
	return f.statuses, f.statusesErr
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}

func testStreets() []models.Street {
	city := &models.City{ID: 1, Name: "Musterstadt"}
	area := &models.Area{ID: 1, Name: "Nord", CityID: 1, City: city}
	return []models.Street{
		{ID: 1, Name: "Hauptstrasse", AreaID: 1, Area: area},
		{ID: 2, Name: "Bahnhofstrasse", AreaID: 1, Area: area},
		{ID: 3, Name: "Gartenweg", AreaID: 1, Area: area},
	}
}

func TestBuilder_Build(t *testing.T) {
	streetID := uint(1)
	store := &fakeStore{
		logs: []models.WorkLog{
			{
				User:      models.User{FullName: "Max Mustermann"},
				StreetID:  &streetID,
				Street:    &models.Street{ID: 1, Name: "Hauptstrasse"},
				Date:      day(t, "2026-01-12"),
				StartTime: "06:00",
				EndTime:   "09:00",
				Notes:     "Schneefall",
			},
			{
				User:      models.User{},
				Date:      day(t, "2026-01-12"),
				StartTime: "23:00",
				EndTime:   "01:00",
			},
		},
		streets: testStreets(),
		statuses: []models.StreetStatus{
			{StreetID: 1, Date: day(t, "2026-01-12"), Status: models.StatusDone, AssignedUsers: models.UserIDList{7}},
			{StreetID: 2, Date: day(t, "2026-01-12"), Status: models.StatusEnRoute, AssignedUsers: models.UserIDList{8}},
		},
	}

	b := NewBuilder(store)
	payload, err := b.Build(context.Background(), day(t, "2026-01-12"), day(t, "2026-01-18"), nil, 42)
	require.NoError(t, err)

	require.Len(t, payload.WorkLogs, 2)
	assert.Equal(t, "Max Mustermann", payload.WorkLogs[0].UserName)
	assert.Equal(t, 180, payload.WorkLogs[0].Minutes)
	assert.Equal(t, "Hauptstrasse", payload.WorkLogs[0].StreetName)
	assert.Equal(t, "Unbekannt", payload.WorkLogs[1].UserName, "missing user name falls back")
	assert.Equal(t, 120, payload.WorkLogs[1].Minutes, "midnight crossing")

	// 3h + 2h of logged work.
	assert.InDelta(t, 5.0, payload.Summary.TotalHours, 0.001)

	require.Len(t, payload.Streets, 3)
	assert.Equal(t, "Nord", payload.Streets[0].Area)
	assert.Equal(t, "Musterstadt", payload.Streets[0].City)

	assert.Equal(t, 2, payload.Summary.TotalStreets, "only streets with status rows count")
	assert.Equal(t, 1, payload.Summary.StreetsCompleted)
	assert.Equal(t, 1, payload.Summary.StreetsInProgress)
	assert.Equal(t, 0, payload.Summary.StreetsOpen)

	assert.Equal(t, uint(42), payload.Meta.GeneratedBy)
	assert.Equal(t, "2026-01-12", payload.Meta.PeriodStart)
	assert.Equal(t, "2026-01-18", payload.Meta.PeriodEnd)
}

func TestBuilder_SummaryCountInvariant(t *testing.T) {
	store := &fakeStore{
		streets: testStreets(),
		statuses: []models.StreetStatus{
			{StreetID: 1, Date: day(t, "2026-01-12"), Status: models.StatusOpen},
			{StreetID: 1, Date: day(t, "2026-01-13"), Status: models.StatusDone},
			{StreetID: 2, Date: day(t, "2026-01-12"), Status: models.StatusEnRoute},
			{StreetID: 3, Date: day(t, "2026-01-14"), Status: models.StatusOpen},
		},
	}

	b := NewBuilder(store)
	payload, err := b.Build(context.Background(), day(t, "2026-01-12"), day(t, "2026-01-18"), nil, 1)
	require.NoError(t, err)

	sum := payload.Summary.StreetsCompleted + payload.Summary.StreetsInProgress + payload.Summary.StreetsOpen
	assert.Equal(t, payload.Summary.TotalStreets, sum)
	assert.Equal(t, 3, payload.Summary.TotalStreets)
}

func TestBuilder_LatestStatusWinsPerStreet(t *testing.T) {
	store := &fakeStore{
		streets: testStreets()[:1],
		statuses: []models.StreetStatus{
			{StreetID: 1, Date: day(t, "2026-01-12"), Status: models.StatusDone},
			{StreetID: 1, Date: day(t, "2026-01-14"), Status: models.StatusEnRoute},
			{StreetID: 1, Date: day(t, "2026-01-13"), Status: models.StatusDone},
		},
	}

	b := NewBuilder(store)
	payload, err := b.Build(context.Background(), day(t, "2026-01-12"), day(t, "2026-01-18"), nil, 1)
	require.NoError(t, err)

	// The row with the greatest date decides the bucket.
	assert.Equal(t, 1, payload.Summary.StreetsInProgress)
	assert.Equal(t, 0, payload.Summary.StreetsCompleted)

	// History is chronological regardless of read order.
	history := payload.Streets[0].StatusHistory
	require.Len(t, history, 3)
	assert.Equal(t, "2026-01-12", history[0].Date)
	assert.Equal(t, "2026-01-13", history[1].Date)
	assert.Equal(t, "2026-01-14", history[2].Date)
}

func TestBuilder_AnyReadFailureFailsTheBuild(t *testing.T) {
	boom := errors.New("connection reset")

	for name, store := range map[string]*fakeStore{
		"logs":     {logsErr: boom},
		"streets":  {streetsErr: boom},
		"statuses": {statusesErr: boom},
	} {
		b := NewBuilder(store)
		payload, err := b.Build(context.Background(), day(t, "2026-01-12"), day(t, "2026-01-18"), nil, 1)
		require.Error(t, err, "read %s", name)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, payload, "no partial payload on %s failure", name)
	}
}

func TestBuilder_PayloadRoundTripsThroughJSON(t *testing.T) {
	streetID := uint(1)
	store := &fakeStore{
		logs: []models.WorkLog{
			{
				User:      models.User{FullName: "Erika Musterfrau"},
				StreetID:  &streetID,
				Street:    &models.Street{ID: 1, Name: "Hauptstrasse"},
				Date:      day(t, "2026-01-12"),
				StartTime: "06:00",
				EndTime:   "07:30",
			},
		},
		streets: testStreets()[:1],
		statuses: []models.StreetStatus{
			{StreetID: 1, Date: day(t, "2026-01-12"), Status: models.StatusDone, AssignedUsers: models.UserIDList{3, 4}},
		},
	}

	b := NewBuilder(store)
	// Fixed timestamp so the decoded copy compares equal.
	b.now = func() time.Time { return day(t, "2026-01-13") }
	payload, err := b.Build(context.Background(), day(t, "2026-01-12"), day(t, "2026-01-12"), nil, 9)
	require.NoError(t, err)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded Payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *payload, decoded)
}
