package service

import (
	"context"
	"time"

	"arena/internal/availability"
	"arena/internal/court"
	"arena/internal/metrics"
	"arena/internal/pricing"
	"arena/internal/timeslot"
)

// Query answers whether iv on date is bookable and at what price. It only fails when the court
// cannot be loaded.
func (s *CourtService) Query(ctx context.Context, id int64, date time.Time, iv timeslot.Interval) (availability.Result, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return availability.Result{}, err
	}

	started := time.Now()
	res := s.engine.Query(c, date, iv)
	metrics.ObserveQuery(resultLabel(res), time.Since(started))

	s.logger.Debug().
		Int64("court_id", id).
		Str("date", date.Format("2006-01-02")).
		Str("slot", iv.String()).
		Bool("available", res.Available).
		Str("reason", string(res.Reason)).
		Msg("availability query")
	return res, nil
}

// Quote resolves the price of iv on date.
func (s *CourtService) Quote(ctx context.Context, id int64, date time.Time, iv timeslot.Interval) (pricing.Quote, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return pricing.Quote{}, err
	}
	return s.engine.Quote(c, date, iv)
}

// DayGrid evaluates the half-hour grid of date.
func (s *CourtService) DayGrid(ctx context.Context, id int64, date time.Time) ([]availability.Cell, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.DayGrid(c, date), nil
}

// GridSnapshot returns one snapshot of the court together with the grid of date evaluated
// against that same snapshot.
func (s *CourtService) GridSnapshot(ctx context.Context, id int64, date time.Time) (court.Court, []availability.Cell, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return court.Court{}, nil, err
	}
	return c, s.engine.DayGrid(c, date), nil
}

func resultLabel(res availability.Result) string {
	if res.Available {
		return "available"
	}
	return string(res.Reason)
}
