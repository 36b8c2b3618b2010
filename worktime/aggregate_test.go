package worktime

import (
	"testing"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}

func publicStreet() *models.Street {
	return &models.Street{Name: "Hauptstrasse", PublicContract: true}
}

func privateStreet() *models.Street {
	return &models.Street{Name: "Privatweg", PublicContract: false}
}

func TestAggregate_SingleDayTotals(t *testing.T) {
	logs := []models.WorkLog{
		{Date: day(t, "2026-01-12"), StartTime: "08:00", EndTime: "10:30"},
		{Date: day(t, "2026-01-12"), StartTime: "11:00", EndTime: "12:00"},
	}

	summary := Aggregate(logs, CategoryAll)
	require.Len(t, summary.Groups, 1)
	assert.Equal(t, 210, summary.Groups[0].TotalMinutes)
	assert.Equal(t, 210, summary.TotalMinutes)
	assert.Equal(t, 2, summary.EntryCount)
	assert.Equal(t, 1, summary.DistinctDays)
	assert.InDelta(t, 3.5, summary.TotalHours(), 0.001)
}

func TestAggregate_GroupsOrderedByDateAscending(t *testing.T) {
	logs := []models.WorkLog{
		{Date: day(t, "2026-01-14"), StartTime: "06:00", EndTime: "08:00"},
		{Date: day(t, "2026-01-12"), StartTime: "06:00", EndTime: "07:00"},
		{Date: day(t, "2026-01-13"), StartTime: "06:00", EndTime: "06:30"},
	}

	summary := Aggregate(logs, CategoryAll)
	require.Len(t, summary.Groups, 3)
	assert.Equal(t, day(t, "2026-01-12"), summary.Groups[0].Date)
	assert.Equal(t, day(t, "2026-01-13"), summary.Groups[1].Date)
	assert.Equal(t, day(t, "2026-01-14"), summary.Groups[2].Date)
	assert.Equal(t, "12.01.2026", summary.Groups[0].Label)
}

func TestAggregate_EntriesOrderedByStartTimeWithinDay(t *testing.T) {
	logs := []models.WorkLog{
		{ID: 1, Date: day(t, "2026-01-12"), StartTime: "14:00", EndTime: "15:00"},
		{ID: 2, Date: day(t, "2026-01-12"), StartTime: "06:00", EndTime: "07:00"},
		{ID: 3, Date: day(t, "2026-01-12"), StartTime: "06:00", EndTime: "08:00"},
	}

	summary := Aggregate(logs, CategoryAll)
	require.Len(t, summary.Groups, 1)
	entries := summary.Groups[0].Entries
	require.Len(t, entries, 3)
	assert.Equal(t, uint(2), entries[0].ID, "ties keep input order")
	assert.Equal(t, uint(3), entries[1].ID)
	assert.Equal(t, uint(1), entries[2].ID)
}

func TestAggregate_CategoryFilter(t *testing.T) {
	logs := []models.WorkLog{
		{ID: 1, Date: day(t, "2026-01-12"), StartTime: "06:00", EndTime: "07:00", Street: publicStreet()},
		{ID: 2, Date: day(t, "2026-01-12"), StartTime: "07:00", EndTime: "08:00", Street: privateStreet()},
		{ID: 3, Date: day(t, "2026-01-12"), StartTime: "08:00", EndTime: "09:00"},
	}

	public := Aggregate(logs, CategoryPublic)
	assert.Equal(t, 1, public.EntryCount)
	assert.Equal(t, 60, public.TotalMinutes)

	// Logs without a street count as private.
	private := Aggregate(logs, CategoryPrivate)
	assert.Equal(t, 2, private.EntryCount)

	all := Aggregate(logs, CategoryAll)
	assert.Equal(t, 3, all.EntryCount)
}

func TestAggregate_Idempotent(t *testing.T) {
	logs := []models.WorkLog{
		{ID: 1, Date: day(t, "2026-01-12"), StartTime: "22:00", EndTime: "02:00"},
		{ID: 2, Date: day(t, "2026-01-13"), StartTime: "06:00", EndTime: "07:00"},
	}

	first := Aggregate(logs, CategoryAll)
	second := Aggregate(logs, CategoryAll)
	assert.Equal(t, first, second)
}

func TestAggregate_SumInvariant(t *testing.T) {
	logs := []models.WorkLog{
		{Date: day(t, "2026-01-12"), StartTime: "23:55", EndTime: "00:25"},
		{Date: day(t, "2026-01-12"), StartTime: "08:00", EndTime: "12:00"},
		{Date: day(t, "2026-01-15"), StartTime: "05:30", EndTime: "09:45"},
		{Date: day(t, "2026-01-20"), StartTime: "00:00", EndTime: "00:00"},
	}

	summary := Aggregate(logs, CategoryAll)

	var groupSum, entrySum int
	for _, g := range summary.Groups {
		groupSum += g.TotalMinutes
		for _, e := range g.Entries {
			entrySum += Duration(e.StartTime, e.EndTime)
		}
	}
	assert.Equal(t, summary.TotalMinutes, groupSum)
	assert.Equal(t, summary.TotalMinutes, entrySum)
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil, CategoryAll)
	assert.Empty(t, summary.Groups)
	assert.Zero(t, summary.TotalMinutes)
	assert.Zero(t, summary.EntryCount)
	assert.Zero(t, summary.DistinctDays)
}
