// Package pricing holds special prices and promotions and resolves the price of a slot.
package pricing

import (
	"fmt"
	"strings"
	"time"

	"arena/internal/domain"
	"arena/internal/timeslot"

	"github.com/shopspring/decimal"
)

// Kind is how a rule's value is applied to an amount.
type Kind string

const (
	// KindFixed replaces the amount with the value.
	KindFixed Kind = "fixed"
	// KindPercentDiscount takes value percent off the amount.
	KindPercentDiscount Kind = "percent"
)

var hundred = decimal.NewFromInt(100)

// ValidateValue checks value against the numeric domain of kind.
func ValidateValue(kind Kind, value decimal.Decimal) error {
	switch kind {
	case KindFixed:
		if value.IsNegative() {
			return fmt.Errorf("%w: fixed value %s is negative", domain.ErrInvalidDiscountValue, value)
		}
	case KindPercentDiscount:
		if value.IsNegative() || value.GreaterThan(hundred) {
			return fmt.Errorf("%w: percent %s outside [0,100]", domain.ErrInvalidDiscountValue, value)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidDiscountValue, kind)
	}
	return nil
}

// Apply computes the amount after applying value of kind, clamped at zero and rounded to cents.
func Apply(kind Kind, amount, value decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch kind {
	case KindFixed:
		out = value
	case KindPercentDiscount:
		out = amount.Mul(decimal.NewFromInt(1).Sub(value.Div(hundred)))
	default:
		out = amount
	}
	if out.IsNegative() {
		out = decimal.Zero
	}
	return RoundCents(out)
}

// RoundCents rounds to two decimals, half up for non-negative amounts.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SpecialPrice overrides the price of a weekday time window.
type SpecialPrice struct {
	ID      string            `json:"id"`
	Weekday time.Weekday      `json:"weekday"`
	Slot    timeslot.Interval `json:"slot"`
	Kind    Kind              `json:"kind"`
	Value   decimal.Decimal   `json:"value"`
}

// Validate checks weekday, slot and value.
func (p SpecialPrice) Validate() error {
	if err := domain.ValidateWeekday(p.Weekday); err != nil {
		return err
	}
	if err := p.Slot.Validate(); err != nil {
		return err
	}
	return ValidateValue(p.Kind, p.Value)
}

// Matches reports whether p applies to iv on weekday.
func (p SpecialPrice) Matches(weekday time.Weekday, iv timeslot.Interval) bool {
	return p.Weekday == weekday && timeslot.Overlaps(p.Slot, iv)
}

// Promotion is a discount campaign bounded by dates, weekdays and time windows.
type Promotion struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Kind      Kind                `json:"kind"`
	Value     decimal.Decimal     `json:"value"`
	StartDate time.Time           `json:"start_date"`
	EndDate   time.Time           `json:"end_date"`
	Weekdays  []time.Weekday      `json:"weekdays"`
	Slots     []timeslot.Interval `json:"slots"`
	Active    bool                `json:"active"`
}

// Validate checks name, value, date range, weekdays and slots.
func (p Promotion) Validate() error {
	if len(strings.TrimSpace(p.Name)) < 3 {
		return fmt.Errorf("%w: promotion name must have at least 3 characters", domain.ErrInvalidName)
	}
	if err := ValidateValue(p.Kind, p.Value); err != nil {
		return err
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() || domain.CompareDates(p.StartDate, p.EndDate) > 0 {
		return fmt.Errorf("%w: promotion needs start_date <= end_date", domain.ErrInvalidDateRange)
	}
	if len(p.Weekdays) == 0 {
		return fmt.Errorf("%w: promotion needs at least one weekday", domain.ErrUnknownWeekday)
	}
	for _, wd := range p.Weekdays {
		if err := domain.ValidateWeekday(wd); err != nil {
			return err
		}
	}
	if len(p.Slots) == 0 {
		return fmt.Errorf("%w: promotion needs at least one time slot", domain.ErrInvalidInterval)
	}
	for _, s := range p.Slots {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Applies reports whether p is active and matches the date, its weekday and iv.
func (p Promotion) Applies(date time.Time, iv timeslot.Interval) bool {
	if !p.Active {
		return false
	}
	if domain.CompareDates(date, p.StartDate) < 0 || domain.CompareDates(date, p.EndDate) > 0 {
		return false
	}
	if !p.hasWeekday(date.Weekday()) {
		return false
	}
	for _, s := range p.Slots {
		if timeslot.Overlaps(s, iv) {
			return true
		}
	}
	return false
}

func (p Promotion) hasWeekday(wd time.Weekday) bool {
	for _, d := range p.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

func (p Promotion) clone() Promotion {
	out := p
	out.Weekdays = append([]time.Weekday(nil), p.Weekdays...)
	out.Slots = append([]timeslot.Interval(nil), p.Slots...)
	return out
}
