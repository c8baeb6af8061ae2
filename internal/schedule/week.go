// Package schedule stores the weekly template: per weekday an open flag and an ordered slot list.
package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"arena/internal/domain"
	"arena/internal/timeslot"
)

// Slot is a bookable window of the template addressed by ID.
type Slot struct {
	ID                string `json:"id" yaml:"id"`
	timeslot.Interval `yaml:",inline"`
}

// Day is the template of one weekday. Slots are kept sorted by start and never overlap.
// A closed day keeps its slots so reopening restores the previous configuration.
type Day struct {
	Open  bool   `json:"open"`
	Slots []Slot `json:"slots"`
}

// Intervals returns the slot intervals regardless of the open flag.
func (d Day) Intervals() []timeslot.Interval {
	out := make([]timeslot.Interval, len(d.Slots))
	for i, s := range d.Slots {
		out[i] = s.Interval
	}
	return out
}

// OpenIntervals returns the slot intervals, or nil when the day is closed.
func (d Day) OpenIntervals() []timeslot.Interval {
	if !d.Open {
		return nil
	}
	return d.Intervals()
}

func (d Day) clone() Day {
	return Day{Open: d.Open, Slots: append([]Slot(nil), d.Slots...)}
}

// Week holds one Day per weekday.
type Week struct {
	days [7]Day
}

// Day returns a copy of the template for wd.
func (w *Week) Day(wd time.Weekday) (Day, error) {
	if err := domain.ValidateWeekday(wd); err != nil {
		return Day{}, err
	}
	return w.days[wd].clone(), nil
}

// SetOpen toggles a weekday. Slots are left untouched either way.
func (w *Week) SetOpen(wd time.Weekday, open bool) error {
	if err := domain.ValidateWeekday(wd); err != nil {
		return err
	}
	w.days[wd].Open = open
	return nil
}

// AddSlot inserts iv into the weekday's slots, keeping them sorted.
func (w *Week) AddSlot(wd time.Weekday, iv timeslot.Interval) (Slot, error) {
	if err := domain.ValidateWeekday(wd); err != nil {
		return Slot{}, err
	}
	if err := iv.Validate(); err != nil {
		return Slot{}, err
	}
	if err := w.checkOverlap(wd, "", iv); err != nil {
		return Slot{}, err
	}

	slot := Slot{ID: domain.NewID(), Interval: iv}
	w.insert(wd, slot)
	return slot, nil
}

// UpdateSlot moves an existing slot to iv. The slot itself is excluded from the overlap check.
func (w *Week) UpdateSlot(wd time.Weekday, slotID string, iv timeslot.Interval) error {
	if err := domain.ValidateWeekday(wd); err != nil {
		return err
	}
	idx := w.indexOf(wd, slotID)
	if idx < 0 {
		return fmt.Errorf("%w: slot %q on %s", domain.ErrUnknownRuleID, slotID, wd)
	}
	if err := iv.Validate(); err != nil {
		return err
	}
	if err := w.checkOverlap(wd, slotID, iv); err != nil {
		return err
	}

	w.remove(wd, idx)
	w.insert(wd, Slot{ID: slotID, Interval: iv})
	return nil
}

// RemoveSlot deletes a slot by ID.
func (w *Week) RemoveSlot(wd time.Weekday, slotID string) error {
	if err := domain.ValidateWeekday(wd); err != nil {
		return err
	}
	idx := w.indexOf(wd, slotID)
	if idx < 0 {
		return fmt.Errorf("%w: slot %q on %s", domain.ErrUnknownRuleID, slotID, wd)
	}
	w.remove(wd, idx)
	return nil
}

// CopyDay overwrites the target day with a deep copy of the source day, open flag included.
func (w *Week) CopyDay(from, to time.Weekday) error {
	if err := domain.ValidateWeekday(from); err != nil {
		return err
	}
	if err := domain.ValidateWeekday(to); err != nil {
		return err
	}
	w.days[to] = w.days[from].clone()
	return nil
}

// Clone returns an independent copy of w.
func (w Week) Clone() Week {
	var out Week
	for i := range w.days {
		out.days[i] = w.days[i].clone()
	}
	return out
}

// RenewIDs assigns fresh IDs to every slot.
func (w *Week) RenewIDs() {
	for i := range w.days {
		for j := range w.days[i].Slots {
			w.days[i].Slots[j].ID = domain.NewID()
		}
	}
}

func (w *Week) checkOverlap(wd time.Weekday, skipID string, iv timeslot.Interval) error {
	for _, s := range w.days[wd].Slots {
		if s.ID == skipID {
			continue
		}
		if timeslot.Overlaps(s.Interval, iv) {
			return fmt.Errorf("%w: %s collides with %s on %s", domain.ErrOverlap, iv, s.Interval, wd)
		}
	}
	return nil
}

func (w *Week) indexOf(wd time.Weekday, slotID string) int {
	for i, s := range w.days[wd].Slots {
		if s.ID == slotID {
			return i
		}
	}
	return -1
}

func (w *Week) insert(wd time.Weekday, slot Slot) {
	slots := w.days[wd].Slots
	pos := len(slots)
	for i, s := range slots {
		if slot.Start < s.Start {
			pos = i
			break
		}
	}
	out := make([]Slot, 0, len(slots)+1)
	out = append(out, slots[:pos]...)
	out = append(out, slot)
	out = append(out, slots[pos:]...)
	w.days[wd].Slots = out
}

func (w *Week) remove(wd time.Weekday, idx int) {
	slots := w.days[wd].Slots
	out := make([]Slot, 0, len(slots)-1)
	out = append(out, slots[:idx]...)
	out = append(out, slots[idx+1:]...)
	w.days[wd].Slots = out
}

// MarshalJSON encodes the week as an object keyed by lowercase weekday name.
func (w Week) MarshalJSON() ([]byte, error) {
	out := make(map[string]Day, len(w.days))
	for _, wd := range domain.Weekdays {
		d := w.days[wd].clone()
		if d.Slots == nil {
			d.Slots = []Slot{}
		}
		out[domain.WeekdayKey(wd)] = d
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the MarshalJSON form, rejecting unknown weekdays and overlapping slots.
func (w *Week) UnmarshalJSON(data []byte) error {
	var raw map[string]Day
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Week
	for key, d := range raw {
		wd, err := domain.ParseWeekday(key)
		if err != nil {
			return err
		}
		out.days[wd].Open = d.Open
		for _, s := range d.Slots {
			if err := s.Validate(); err != nil {
				return err
			}
			if err := out.checkOverlap(wd, "", s.Interval); err != nil {
				return err
			}
			if s.ID == "" {
				s.ID = domain.NewID()
			}
			out.insert(wd, s)
		}
	}
	*w = out
	return nil
}
