package period

import (
	"fmt"
	"time"
)

type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// Period is an inclusive date range with a display label. Week periods
// carry the ISO week number.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Week  int       `json:"week,omitempty"`
}

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

const dateLayout = "02.01.2006"

// Resolve computes the inclusive date range containing ref for the given
// granularity. Weeks are ISO 8601: Monday start, Thursday-anchored week
// numbering, so a Sunday reference resolves to the Monday six days earlier.
func Resolve(ref time.Time, g Granularity) Period {
	ref = truncate(ref)
	switch g {
	case Week:
		start := ref.AddDate(0, 0, -mondayOffset(ref.Weekday()))
		end := start.AddDate(0, 0, 6)
		isoYear, week := start.ISOWeek()
		return Period{
			Start: start,
			End:   end,
			Week:  week,
			Label: fmt.Sprintf("KW %d/%d (%s – %s)", week, isoYear,
				start.Format(dateLayout), end.Format(dateLayout)),
		}
	case Month:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		// Day zero of the next month is the last day of this one.
		end := time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location())
		return Period{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s %d", germanMonths[start.Month()-1], start.Year()),
		}
	default:
		return Period{Start: ref, End: ref, Label: ref.Format(dateLayout)}
	}
}

// mondayOffset returns how many days back the ISO week's Monday lies.
func mondayOffset(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
