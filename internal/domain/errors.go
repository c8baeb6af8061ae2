// Package domain holds the error taxonomy and calendar helpers shared by the rule engine.
package domain

import "errors"

// Validation errors returned synchronously by mutating operations.
var (
	ErrInvalidInterval      = errors.New("invalid interval")
	ErrOverlap              = errors.New("overlaps an existing slot")
	ErrInvalidReopenTime    = errors.New("reopen time must be in the future")
	ErrInvalidDiscountValue = errors.New("invalid discount value")
	ErrUnknownWeekday       = errors.New("unknown weekday")
	ErrUnknownRuleID        = errors.New("unknown rule id")
	ErrInvalidPrice         = errors.New("price must be greater than zero")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrInvalidName          = errors.New("invalid name")
)

// Lookup and storage errors.
var (
	ErrUnknownCourt           = errors.New("unknown court")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// IsValidation reports whether err belongs to the validation taxonomy.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidInterval, ErrOverlap, ErrInvalidReopenTime, ErrInvalidDiscountValue,
		ErrUnknownWeekday, ErrInvalidPrice, ErrInvalidDateRange, ErrInvalidName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
