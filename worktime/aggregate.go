package worktime

import (
	"sort"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"
)

// Category filters aggregation by the street-derived contract flag.
type Category string

const (
	CategoryAll     Category = ""
	CategoryPublic  Category = "public"
	CategoryPrivate Category = "private"
)

// DayGroup is one calendar day of work logs, ordered by start time.
// It is recomputed on every aggregation and never persisted.
type DayGroup struct {
	Date         time.Time        `json:"date"`
	Label        string           `json:"label"`
	Entries      []models.WorkLog `json:"entries"`
	TotalMinutes int              `json:"total_minutes"`
}

type Summary struct {
	Groups       []DayGroup `json:"groups"`
	TotalMinutes int        `json:"total_minutes"`
	EntryCount   int        `json:"entry_count"`
	DistinctDays int        `json:"distinct_days"`
}

func (s Summary) TotalHours() float64 {
	return float64(s.TotalMinutes) / 60.0
}

const dayKeyFormat = "2006-01-02"

// Aggregate groups work logs by calendar date and sums durations per day
// and over the whole input. Groups come back oldest first; within a group
// entries are ordered by start time, ties keep their input order. With
// CategoryPublic or CategoryPrivate only logs matching the street contract
// flag are counted.
func Aggregate(logs []models.WorkLog, filter Category) Summary {
	byDay := make(map[string][]models.WorkLog)
	var keys []string

	for _, log := range logs {
		if !matches(&log, filter) {
			continue
		}
		key := log.Date.Format(dayKeyFormat)
		if _, ok := byDay[key]; !ok {
			keys = append(keys, key)
		}
		byDay[key] = append(byDay[key], log)
	}
	sort.Strings(keys)

	summary := Summary{Groups: make([]DayGroup, 0, len(keys))}
	for _, key := range keys {
		entries := byDay[key]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].StartTime < entries[j].StartTime
		})

		group := DayGroup{
			Date:    entries[0].Date,
			Label:   entries[0].Date.Format("02.01.2006"),
			Entries: entries,
		}
		for _, e := range entries {
			group.TotalMinutes += Duration(e.StartTime, e.EndTime)
		}

		summary.Groups = append(summary.Groups, group)
		summary.TotalMinutes += group.TotalMinutes
		summary.EntryCount += len(entries)
	}
	summary.DistinctDays = len(summary.Groups)
	return summary
}

func matches(log *models.WorkLog, filter Category) bool {
	switch filter {
	case CategoryPublic:
		return log.IsPublicContract()
	case CategoryPrivate:
		return !log.IsPublicContract()
	default:
		return true
	}
}
