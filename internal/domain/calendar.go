package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical YYYY-MM-DD layout for calendar dates.
const DateLayout = "2006-01-02"

// Weekdays lists the week Monday first, the order used by the editor.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
}

// ParseWeekday accepts English names ("monday", "Mon") or ISO numbers (1=Mon, 7=Sun).
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayNames[key]; ok {
		return wd, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 7 {
		return time.Weekday(n % 7), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// ValidateWeekday rejects values outside time.Sunday..time.Saturday.
func ValidateWeekday(wd time.Weekday) error {
	if wd < time.Sunday || wd > time.Saturday {
		return fmt.Errorf("%w: %d", ErrUnknownWeekday, int(wd))
	}
	return nil
}

// WeekdayKey returns the lowercase English name used in JSON and YAML.
func WeekdayKey(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// DateOnly drops the clock part, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CompareDates compares the calendar dates of a and b, ignoring time of day and location.
func CompareDates(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return cmpInt(ay, by)
	case am != bm:
		return cmpInt(int(am), int(bm))
	default:
		return cmpInt(ad, bd)
	}
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
