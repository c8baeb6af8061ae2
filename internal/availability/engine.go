// Package availability answers "is this bookable, and at what price" for a court snapshot.
package availability

import (
	"time"

	"arena/internal/clock"
	"arena/internal/court"
	"arena/internal/pricing"
	"arena/internal/timeslot"

	"github.com/shopspring/decimal"
)

// Reason explains why a query is unavailable. The empty reason means available.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonResourceBlocked      Reason = "resource_blocked"
	ReasonDayClosed            Reason = "day_closed"
	ReasonOutsideTemplate      Reason = "outside_template"
	ReasonRecurringReservation Reason = "recurring_reservation"
	ReasonInvalidQuery         Reason = "invalid_query"
)

// Result is the answer to one query.
type Result struct {
	Available bool                `json:"available"`
	Price     decimal.Decimal     `json:"price"`
	Reason    Reason              `json:"blocked_reason,omitempty"`
	Applied   pricing.AppliedRule `json:"applied_rule"`
	// Customer holds the recurring customer occupying the interval, if any.
	Customer string `json:"customer,omitempty"`
	// RecurringID is the blocking recurring reservation, if any.
	RecurringID string `json:"recurring_id,omitempty"`
}

// Engine evaluates queries against court snapshots. It holds no court state.
type Engine struct {
	clock clock.Clock
}

func NewEngine(c clock.Clock) *Engine {
	if c == nil {
		c = clock.System{}
	}
	return &Engine{clock: c}
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Query evaluates c for iv on date using the engine clock as "now".
func (e *Engine) Query(c court.Court, date time.Time, iv timeslot.Interval) Result {
	return Evaluate(c, e.clock.Now(), date, iv)
}

// Evaluate is the pure form of Query. The first applicable reason wins: resource blocked,
// day closed, outside template, recurring reservation. Price is resolved in every case except
// an invalid interval.
func Evaluate(c court.Court, now, date time.Time, iv timeslot.Interval) Result {
	if err := iv.Validate(); err != nil {
		return Result{Reason: ReasonInvalidQuery, Price: decimal.Zero}
	}

	quote := pricing.Resolve(c.BasePrice, c.Pricing, date, iv)
	res := Result{Price: quote.Amount, Applied: quote.Applied}

	if c.Block.Status(now).Blocked() {
		res.Reason = ReasonResourceBlocked
		return res
	}

	weekday := date.Weekday()
	day, err := c.Week.Day(weekday)
	if err != nil {
		res.Reason = ReasonInvalidQuery
		return res
	}
	if !day.Open {
		res.Reason = ReasonDayClosed
		return res
	}
	if !timeslot.Covered(iv, day.OpenIntervals()) {
		res.Reason = ReasonOutsideTemplate
		return res
	}
	if b, blocked := c.Recurring.BlockingOn(weekday, date, iv); blocked {
		res.Reason = ReasonRecurringReservation
		res.Customer = b.Customer
		res.RecurringID = b.ID
		return res
	}

	res.Available = true
	return res
}

// Quote resolves the price alone.
func (e *Engine) Quote(c court.Court, date time.Time, iv timeslot.Interval) (pricing.Quote, error) {
	if err := iv.Validate(); err != nil {
		return pricing.Quote{}, err
	}
	return pricing.Resolve(c.BasePrice, c.Pricing, date, iv), nil
}
