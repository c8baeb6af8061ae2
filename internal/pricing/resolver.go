package pricing

import (
	"time"

	"arena/internal/timeslot"

	"github.com/shopspring/decimal"
)

// RuleType identifies which layer produced a quote.
type RuleType string

const (
	RuleBase         RuleType = "base"
	RuleSpecialPrice RuleType = "special_price"
	RulePromotion    RuleType = "promotion"
)

// AppliedRule names the rule behind a quote.
type AppliedRule struct {
	Type RuleType `json:"type"`
	ID   string   `json:"id,omitempty"`
	Name string   `json:"name,omitempty"`
}

// Quote is a resolved price.
type Quote struct {
	Amount  decimal.Decimal `json:"amount"`
	Applied AppliedRule     `json:"applied_rule"`
}

// Resolve prices iv on date. Precedence: the cheapest matching special price (first created wins
// a tie) overrides everything; otherwise the cheapest matching active promotion discounts the base
// price; otherwise the base price applies.
func Resolve(base decimal.Decimal, book Book, date time.Time, iv timeslot.Interval) Quote {
	base = RoundCents(base)
	weekday := date.Weekday()

	var best *Quote
	for _, p := range book.SpecialPrices {
		if !p.Matches(weekday, iv) {
			continue
		}
		amount := Apply(p.Kind, base, p.Value)
		if best == nil || amount.LessThan(best.Amount) {
			best = &Quote{Amount: amount, Applied: AppliedRule{Type: RuleSpecialPrice, ID: p.ID}}
		}
	}
	if best != nil {
		return *best
	}

	for _, p := range book.Promotions {
		if !p.Applies(date, iv) {
			continue
		}
		amount := Apply(p.Kind, base, p.Value)
		if best == nil || amount.LessThan(best.Amount) {
			best = &Quote{Amount: amount, Applied: AppliedRule{Type: RulePromotion, ID: p.ID, Name: p.Name}}
		}
	}
	if best != nil {
		return *best
	}

	return Quote{Amount: base, Applied: AppliedRule{Type: RuleBase}}
}
