package service

import (
	"context"
	"fmt"
	"time"

	"arena/internal/court"
	"arena/internal/domain"
	"arena/internal/events"
	"arena/internal/recurring"
)

// AddRecurring stores a standing reservation.
func (s *CourtService) AddRecurring(ctx context.Context, id int64, b recurring.Block) (recurring.Block, error) {
	var added recurring.Block
	_, err := s.mutate(ctx, id, "add_recurring", events.RecurringChanged, func(c *court.Court, _ time.Time) error {
		var err error
		added, err = c.Recurring.Add(b)
		return err
	})
	if err != nil {
		return recurring.Block{}, err
	}
	return added, nil
}

// UpdateRecurring replaces a standing reservation by ID.
func (s *CourtService) UpdateRecurring(ctx context.Context, id int64, ruleID string, b recurring.Block) (court.Court, error) {
	return s.mutate(ctx, id, "update_recurring", events.RecurringChanged, func(c *court.Court, _ time.Time) error {
		return c.Recurring.Update(ruleID, b)
	})
}

// RemoveRecurring deletes a standing reservation by ID.
func (s *CourtService) RemoveRecurring(ctx context.Context, id int64, ruleID string) (court.Court, error) {
	return s.mutate(ctx, id, "remove_recurring", events.RecurringChanged, func(c *court.Court, _ time.Time) error {
		return c.Recurring.Remove(ruleID)
	})
}

// RecurringConflicts lists the reservations of wd lying outside that day's open template.
func (s *CourtService) RecurringConflicts(ctx context.Context, id int64, wd time.Weekday) ([]recurring.Block, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	day, err := c.Week.Day(wd)
	if err != nil {
		return nil, err
	}
	return c.Recurring.ConflictsWithTemplate(wd, day), nil
}

// AllRecurringConflicts runs RecurringConflicts for every weekday, Monday first.
func (s *CourtService) AllRecurringConflicts(ctx context.Context, id int64) (map[time.Weekday][]recurring.Block, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make(map[time.Weekday][]recurring.Block)
	for _, wd := range domain.Weekdays {
		day, err := c.Week.Day(wd)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", wd, err)
		}
		if conflicts := c.Recurring.ConflictsWithTemplate(wd, day); len(conflicts) > 0 {
			out[wd] = conflicts
		}
	}
	return out, nil
}
