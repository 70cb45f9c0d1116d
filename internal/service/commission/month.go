package commission

import (
	"time"
)

const monthLayout = "2006-01"

// MonthOf formats t as YYYY-MM in loc.
func MonthOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(monthLayout)
}

// ParseMonth validates a YYYY-MM string.
func ParseMonth(s string) (string, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", ErrInvalidMonth
	}
	return t.Format(monthLayout), nil
}

// monthOrCurrent returns the validated month, or the current one when empty.
func monthOrCurrent(s string, now time.Time, loc *time.Location) (string, error) {
	if s == "" {
		return MonthOf(now, loc), nil
	}
	return ParseMonth(s)
}
