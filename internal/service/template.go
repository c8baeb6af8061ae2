package service

import (
	"context"
	"time"

	"arena/internal/court"
	"arena/internal/events"
	"arena/internal/schedule"
	"arena/internal/timeslot"
)

// SetDayOpen opens or closes a weekday. Slots are kept either way.
func (s *CourtService) SetDayOpen(ctx context.Context, id int64, wd time.Weekday, open bool) (court.Court, error) {
	return s.mutate(ctx, id, "set_day_open", events.TemplateChanged, func(c *court.Court, _ time.Time) error {
		return c.Week.SetOpen(wd, open)
	})
}

// AddSlot adds a bookable window to a weekday.
func (s *CourtService) AddSlot(ctx context.Context, id int64, wd time.Weekday, iv timeslot.Interval) (schedule.Slot, error) {
	var added schedule.Slot
	_, err := s.mutate(ctx, id, "add_slot", events.TemplateChanged, func(c *court.Court, _ time.Time) error {
		var err error
		added, err = c.Week.AddSlot(wd, iv)
		return err
	})
	if err != nil {
		return schedule.Slot{}, err
	}
	return added, nil
}

// UpdateSlot moves an existing slot.
func (s *CourtService) UpdateSlot(ctx context.Context, id int64, wd time.Weekday, slotID string, iv timeslot.Interval) (court.Court, error) {
	return s.mutate(ctx, id, "update_slot", events.TemplateChanged, func(c *court.Court, _ time.Time) error {
		return c.Week.UpdateSlot(wd, slotID, iv)
	})
}

// RemoveSlot deletes a slot.
func (s *CourtService) RemoveSlot(ctx context.Context, id int64, wd time.Weekday, slotID string) (court.Court, error) {
	return s.mutate(ctx, id, "remove_slot", events.TemplateChanged, func(c *court.Court, _ time.Time) error {
		return c.Week.RemoveSlot(wd, slotID)
	})
}

// CopyDay overwrites the template of to with the template of from.
func (s *CourtService) CopyDay(ctx context.Context, id int64, from, to time.Weekday) (court.Court, error) {
	return s.mutate(ctx, id, "copy_day", events.TemplateChanged, func(c *court.Court, _ time.Time) error {
		return c.Week.CopyDay(from, to)
	})
}
