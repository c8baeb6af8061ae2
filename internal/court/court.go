// Package court defines the Court aggregate: the full rule configuration of one bookable court.
package court

import (
	"fmt"
	"strings"
	"time"

	"arena/internal/blockstate"
	"arena/internal/domain"
	"arena/internal/pricing"
	"arena/internal/recurring"
	"arena/internal/schedule"

	"github.com/shopspring/decimal"
)

const minNameLength = 3

// Court is one bookable resource with every rule layer that governs it.
type Court struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Sport     string           `json:"sport"`
	BasePrice decimal.Decimal  `json:"base_price"`
	Week      schedule.Week    `json:"week"`
	Recurring recurring.Set    `json:"recurring"`
	Block     blockstate.State `json:"block"`
	Pricing   pricing.Book     `json:"pricing"`
	Addons    []Addon          `json:"addons"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Version   int64            `json:"version"`
}

// New builds a court with an empty template and the default add-ons of its sport.
func New(name, sport string, basePrice decimal.Decimal) (Court, error) {
	c := Court{
		Name:      strings.TrimSpace(name),
		Sport:     strings.TrimSpace(sport),
		BasePrice: basePrice,
		Addons:    DefaultAddons(sport),
	}
	if err := c.ValidateDetails(); err != nil {
		return Court{}, err
	}
	return c, nil
}

// ValidateDetails checks name, sport and base price.
func (c Court) ValidateDetails() error {
	if len([]rune(strings.TrimSpace(c.Name))) < minNameLength {
		return fmt.Errorf("%w: court name must have at least %d characters", domain.ErrInvalidName, minNameLength)
	}
	if strings.TrimSpace(c.Sport) == "" {
		return fmt.Errorf("%w: sport is required", domain.ErrInvalidName)
	}
	if !c.BasePrice.IsPositive() {
		return fmt.Errorf("%w: base price %s", domain.ErrInvalidPrice, c.BasePrice)
	}
	return nil
}

// SetDetails renames the court, changes its sport and base price. Changing sport re-derives the
// racket add-on.
func (c *Court) SetDetails(name, sport string, basePrice decimal.Decimal) error {
	next := *c
	next.Name = strings.TrimSpace(name)
	next.Sport = strings.TrimSpace(sport)
	next.BasePrice = basePrice
	if err := next.ValidateDetails(); err != nil {
		return err
	}
	if normalizeSport(c.Sport) != normalizeSport(next.Sport) {
		next.Addons = adjustAddonsForSport(c.Addons, next.Sport)
	}
	*c = next
	return nil
}

// Status evaluates the block state at now.
func (c Court) Status(now time.Time) blockstate.Status {
	return c.Block.Status(now)
}

// Clone returns a deep copy sharing no mutable state with c.
func (c Court) Clone() Court {
	out := c
	out.Week = c.Week.Clone()
	out.Recurring = c.Recurring.Clone()
	out.Block = c.Block.Clone()
	out.Pricing = c.Pricing.Clone()
	out.Addons = append([]Addon(nil), c.Addons...)
	return out
}

// Duplicate copies the rule set into a new, unsaved, open court with fresh rule IDs.
func (c Court) Duplicate() Court {
	out := c.Clone()
	out.ID = 0
	out.Name = c.Name + " (copy)"
	out.Block = blockstate.State{}
	out.Version = 0
	out.CreatedAt = time.Time{}
	out.UpdatedAt = time.Time{}
	out.Week.RenewIDs()
	out.Recurring.RenewIDs()
	out.Pricing.RenewIDs()
	return out
}
