// Package timeslot provides minute-granularity time-of-day values and half-open intervals.
package timeslot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"arena/internal/domain"
)

// MinutesPerDay bounds every TimeOfDay: valid values are 0..MinutesPerDay-1.
const MinutesPerDay = 24 * 60

// TimeOfDay is minutes since midnight.
type TimeOfDay int

// Clock builds a TimeOfDay from hours and minutes.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// FromTime returns the time of day of t in its own location.
func FromTime(t time.Time) TimeOfDay {
	return Clock(t.Hour(), t.Minute())
}

// Valid reports whether t lies within [0, MinutesPerDay).
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// String formats t as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTimeOfDay parses "H:MM" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: invalid time format %q, expected HH:MM", domain.ErrInvalidInterval, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: invalid hour in %q", domain.ErrInvalidInterval, s)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: invalid minute in %q", domain.ErrInvalidInterval, s)
	}

	return Clock(hour, minute), nil
}

// Interval is the half-open range [Start, End).
type Interval struct {
	Start TimeOfDay `json:"start" yaml:"start"`
	End   TimeOfDay `json:"end" yaml:"end"`
}

// New parses both bounds and validates the result.
func New(start, end string) (Interval, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Interval{}, err
	}
	iv := Interval{Start: s, End: e}
	return iv, iv.Validate()
}

// Validate fails with ErrInvalidInterval when Start >= End or a bound is out of range.
func (iv Interval) Validate() error {
	if !iv.Start.Valid() || !iv.End.Valid() {
		return fmt.Errorf("%w: %s bounds must be within 00:00-23:59", domain.ErrInvalidInterval, iv)
	}
	if iv.Start >= iv.End {
		return fmt.Errorf("%w: %s start must be before end", domain.ErrInvalidInterval, iv)
	}
	return nil
}

// Overlaps reports whether a and b share at least one minute.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Contains reports whether point falls inside iv. End is exclusive.
func (iv Interval) Contains(point TimeOfDay) bool {
	return point >= iv.Start && point < iv.End
}

// Covers reports whether other lies entirely within iv.
func (iv Interval) Covers(other Interval) bool {
	return other.Start >= iv.Start && other.End <= iv.End
}

// Minutes returns the length of iv.
func (iv Interval) Minutes() int {
	return int(iv.End - iv.Start)
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}

// Sort orders intervals by start, then end.
func Sort(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		return ivs[i].End < ivs[j].End
	})
}

// Union merges overlapping and adjacent intervals into a sorted, disjoint list.
func Union(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sorted := append([]Interval(nil), ivs...)
	Sort(sorted)

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Covered reports whether iv lies entirely within the union of slots.
func Covered(iv Interval, slots []Interval) bool {
	for _, u := range Union(slots) {
		if u.Covers(iv) {
			return true
		}
	}
	return false
}

// Grid splits window into consecutive cells of step minutes; a trailing partial cell is dropped.
func Grid(window Interval, step int) []Interval {
	if step <= 0 {
		step = 30
	}
	var cells []Interval
	for cursor := window.Start; cursor+TimeOfDay(step) <= window.End; cursor += TimeOfDay(step) {
		cells = append(cells, Interval{Start: cursor, End: cursor + TimeOfDay(step)})
	}
	return cells
}
