package court

import (
	"fmt"
	"strings"

	"arena/internal/domain"

	"github.com/shopspring/decimal"
)

// Addon is an optional extra rented with the court.
type Addon struct {
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Enabled bool            `json:"enabled"`
}

// Validate checks the name and that the price is not negative.
func (a Addon) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: add-on name is required", domain.ErrInvalidName)
	}
	if a.Price.IsNegative() {
		return fmt.Errorf("%w: add-on %q price %s is negative", domain.ErrInvalidPrice, a.Name, a.Price)
	}
	return nil
}

const racketsAddon = "Rackets"

var racketSports = map[string]bool{
	"beach tennis": true,
	"tennis":       true,
	"padel":        true,
}

func normalizeSport(sport string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(sport), "_", " "))
}

// IsRacketSport reports whether sport gets the rackets add-on.
func IsRacketSport(sport string) bool {
	return racketSports[normalizeSport(sport)]
}

func racketsDefault() Addon {
	return Addon{Name: racketsAddon, Price: decimal.NewFromInt(20)}
}

// DefaultAddons returns the add-ons every court of sport starts with, all disabled.
func DefaultAddons(sport string) []Addon {
	out := []Addon{
		{Name: "Ball", Price: decimal.NewFromInt(10)},
		{Name: "Bibs", Price: decimal.NewFromInt(15)},
	}
	if IsRacketSport(sport) {
		out = append(out, racketsDefault())
	}
	return out
}

func addonKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MergeAddons overlays saved onto defaults by name key. Defaults keep their order, saved records
// replace defaults with the same key and saved-only records follow in saved order.
func MergeAddons(defaults, saved []Addon) []Addon {
	out := make([]Addon, 0, len(defaults)+len(saved))
	index := make(map[string]int, len(defaults)+len(saved))
	for _, d := range defaults {
		key := addonKey(d.Name)
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = len(out)
		out = append(out, d)
	}
	for _, s := range saved {
		s.Name = strings.TrimSpace(s.Name)
		key := addonKey(s.Name)
		if i, ok := index[key]; ok {
			out[i] = s
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}

// SetAddons validates saved and merges it over the sport defaults.
func (c *Court) SetAddons(saved []Addon) error {
	for i, a := range saved {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("addon[%d]: %w", i, err)
		}
	}
	c.Addons = MergeAddons(DefaultAddons(c.Sport), saved)
	return nil
}

// EnabledAddons returns the add-ons offered to customers.
func (c Court) EnabledAddons() []Addon {
	var out []Addon
	for _, a := range c.Addons {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}

func adjustAddonsForSport(current []Addon, sport string) []Addon {
	out := make([]Addon, 0, len(current)+1)
	hasRackets := false
	for _, a := range current {
		if addonKey(a.Name) == addonKey(racketsAddon) {
			if !IsRacketSport(sport) && isUntouchedRackets(a) {
				continue
			}
			hasRackets = true
		}
		out = append(out, a)
	}
	if IsRacketSport(sport) && !hasRackets {
		out = append(out, racketsDefault())
	}
	return out
}

func isUntouchedRackets(a Addon) bool {
	d := racketsDefault()
	return !a.Enabled && a.Price.Equal(d.Price)
}
