package service

import (
	"context"
	"time"

	"arena/internal/court"
	"arena/internal/events"
	"arena/internal/metrics"

	"github.com/shopspring/decimal"
)

// CourtDetails are the editable top-level fields of a court.
type CourtDetails struct {
	Name      string
	Sport     string
	BasePrice decimal.Decimal
}

// CreateCourt stores a new court with an empty, closed template and default add-ons.
func (s *CourtService) CreateCourt(ctx context.Context, d CourtDetails) (court.Court, error) {
	c, err := court.New(d.Name, d.Sport, d.BasePrice)
	if err != nil {
		s.recordFailure(0, "create_court", err)
		return court.Court{}, err
	}
	return s.insert(ctx, c, "create_court")
}

func (s *CourtService) insert(ctx context.Context, c court.Court, op string) (court.Court, error) {
	c.CreatedAt = s.clock.Now()
	if err := s.repo.CreateCourt(ctx, &c); err != nil {
		s.recordFailure(0, op, err)
		return court.Court{}, err
	}
	s.publish(events.CourtCreated, c)
	metrics.IncMutation(op, "ok")
	s.logger.Info().Int64("court_id", c.ID).Str("name", c.Name).Str("op", op).Msg("court created")
	return c, nil
}

// GetCourt returns a snapshot of one court.
func (s *CourtService) GetCourt(ctx context.Context, id int64) (court.Court, error) {
	return s.load(ctx, id)
}

// ListCourts returns the catalog filtered and sorted by f.
func (s *CourtService) ListCourts(ctx context.Context, f court.Filter) ([]court.Court, error) {
	all, err := s.repo.ListCourts(ctx)
	if err != nil {
		return nil, err
	}
	return court.Select(all, f, s.clock.Now()), nil
}

// UpdateDetails changes name, sport and base price.
func (s *CourtService) UpdateDetails(ctx context.Context, id int64, d CourtDetails) (court.Court, error) {
	return s.mutate(ctx, id, "update_details", events.CourtUpdated, func(c *court.Court, _ time.Time) error {
		return c.SetDetails(d.Name, d.Sport, d.BasePrice)
	})
}

// SetAddons replaces the saved add-ons, merged over the sport defaults.
func (s *CourtService) SetAddons(ctx context.Context, id int64, addons []court.Addon) (court.Court, error) {
	return s.mutate(ctx, id, "set_addons", events.CourtUpdated, func(c *court.Court, _ time.Time) error {
		return c.SetAddons(addons)
	})
}

// DeleteCourt removes a court.
func (s *CourtService) DeleteCourt(ctx context.Context, id int64) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.DeleteCourt(ctx, id); err != nil {
		s.recordFailure(id, "delete_court", err)
		return err
	}
	s.cache.Invalidate(ctx, id)
	s.dropLock(id)
	s.bus.Publish(events.Event{Type: events.CourtDeleted, CourtID: id, CreatedAt: s.clock.Now()})
	metrics.IncMutation("delete_court", "ok")
	s.logger.Info().Int64("court_id", id).Msg("court deleted")
	return nil
}

// DuplicateCourt stores a copy of a court under a new ID, open and with fresh rule IDs.
func (s *CourtService) DuplicateCourt(ctx context.Context, id int64) (court.Court, error) {
	src, err := s.repo.GetCourt(ctx, id)
	if err != nil {
		s.recordFailure(id, "duplicate_court", err)
		return court.Court{}, err
	}
	return s.insert(ctx, src.Duplicate(), "duplicate_court")
}
