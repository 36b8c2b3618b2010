package worktime

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts a wall-clock "HH:MM" value into minutes since
// midnight. Handlers validate user input with this before anything is
// stored; the aggregation code below assumes well-formed values.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: bad minute", s)
	}
	return h*60 + m, nil
}

// Duration returns the elapsed minutes between two wall-clock "HH:MM"
// values. An end before the start means the interval crossed midnight and
// is normalized by a full day, so 23:55 to 00:25 is 30 minutes. Malformed
// input counts as zero minutes; validation happens at the storage boundary.
func Duration(start, end string) int {
	s, err := ParseClock(start)
	if err != nil {
		return 0
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0
	}
	diff := e - s
	if diff < 0 {
		diff += minutesPerDay
	}
	return diff
}
