package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"arena/internal/court"
	"arena/internal/domain"
	"arena/internal/pricing"
	"arena/internal/recurring"
	"arena/internal/timeslot"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SlotConfig is an "HH:MM" window.
type SlotConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// DayConfig is the template of one weekday.
type DayConfig struct {
	Open  bool         `yaml:"open"`
	Slots []SlotConfig `yaml:"slots"`
}

// RecurringConfig is a standing reservation.
type RecurringConfig struct {
	Customer  string `yaml:"customer"`
	Weekday   string `yaml:"weekday"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	ValidFrom string `yaml:"valid_from,omitempty"` // "2025-01-10"
	ValidTo   string `yaml:"valid_to,omitempty"`
}

// SpecialPriceConfig pins a price to a weekday window.
type SpecialPriceConfig struct {
	Weekday string          `yaml:"weekday"`
	Start   string          `yaml:"start"`
	End     string          `yaml:"end"`
	Kind    pricing.Kind    `yaml:"kind"`
	Value   decimal.Decimal `yaml:"value"`
}

// PromotionConfig is a discount campaign.
type PromotionConfig struct {
	Name      string          `yaml:"name"`
	Kind      pricing.Kind    `yaml:"kind"`
	Value     decimal.Decimal `yaml:"value"`
	StartDate string          `yaml:"start_date"`
	EndDate   string          `yaml:"end_date"`
	Weekdays  []string        `yaml:"weekdays"`
	Slots     []SlotConfig    `yaml:"slots"`
	Active    bool            `yaml:"active"`
}

// AddonConfig is an optional extra.
type AddonConfig struct {
	Name    string          `yaml:"name"`
	Price   decimal.Decimal `yaml:"price"`
	Enabled bool            `yaml:"enabled"`
}

// CourtConfig declares one court of the seed file.
type CourtConfig struct {
	Name          string               `yaml:"name"`
	Sport         string               `yaml:"sport"`
	BasePrice     decimal.Decimal      `yaml:"base_price"`
	Week          map[string]DayConfig `yaml:"week"`
	Recurring     []RecurringConfig    `yaml:"recurring"`
	SpecialPrices []SpecialPriceConfig `yaml:"special_prices"`
	Promotions    []PromotionConfig    `yaml:"promotions"`
	Addons        []AddonConfig        `yaml:"addons"`
}

// CourtsConfig is the root of courts.yaml.
type CourtsConfig struct {
	Courts   []CourtConfig `yaml:"courts"`
	Defaults struct {
		Week map[string]DayConfig `yaml:"week"`
	} `yaml:"defaults"`
}

// LoadCourtsConfig loads and validates the courts seed file.
func LoadCourtsConfig(path string) (*CourtsConfig, error) {
	if path == "" {
		path = "configs/courts.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read courts config: %w", err)
	}

	var cfg CourtsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse courts config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate courts config: %w", err)
	}

	return &cfg, nil
}

// Validate builds every court and reports the first invalid entry.
func (c *CourtsConfig) Validate() error {
	if len(c.Courts) == 0 {
		return fmt.Errorf("no courts defined")
	}

	names := make(map[string]bool)
	for i, cc := range c.Courts {
		key := strings.ToLower(strings.TrimSpace(cc.Name))
		if names[key] {
			return fmt.Errorf("courts[%d]: duplicate name '%s'", i, cc.Name)
		}
		names[key] = true

		if _, err := cc.Build(time.UTC); err != nil {
			return fmt.Errorf("courts[%d]: %w", i, err)
		}
	}
	return nil
}

func (c *CourtsConfig) applyDefaults() {
	if len(c.Defaults.Week) == 0 {
		return
	}
	for i := range c.Courts {
		if len(c.Courts[i].Week) == 0 {
			c.Courts[i].Week = c.Defaults.Week
		}
	}
}

// Find returns the court declared with name, case-insensitively.
func (c *CourtsConfig) Find(name string) (CourtConfig, bool) {
	for _, cc := range c.Courts {
		if strings.EqualFold(strings.TrimSpace(cc.Name), strings.TrimSpace(name)) {
			return cc, true
		}
	}
	return CourtConfig{}, false
}

// Build converts the declaration into a validated court. Dates are interpreted in loc.
func (cc CourtConfig) Build(loc *time.Location) (court.Court, error) {
	c, err := court.New(cc.Name, cc.Sport, cc.BasePrice)
	if err != nil {
		return court.Court{}, err
	}

	keys := make([]string, 0, len(cc.Week))
	for key := range cc.Week {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		day := cc.Week[key]
		wd, err := domain.ParseWeekday(key)
		if err != nil {
			return court.Court{}, fmt.Errorf("week.%s: %w", key, err)
		}
		for j, s := range day.Slots {
			iv, err := timeslot.New(s.Start, s.End)
			if err != nil {
				return court.Court{}, fmt.Errorf("week.%s.slots[%d]: %w", key, j, err)
			}
			if _, err := c.Week.AddSlot(wd, iv); err != nil {
				return court.Court{}, fmt.Errorf("week.%s.slots[%d]: %w", key, j, err)
			}
		}
		if err := c.Week.SetOpen(wd, day.Open); err != nil {
			return court.Court{}, fmt.Errorf("week.%s: %w", key, err)
		}
	}

	for j, r := range cc.Recurring {
		b, err := r.block(loc)
		if err != nil {
			return court.Court{}, fmt.Errorf("recurring[%d]: %w", j, err)
		}
		if _, err := c.Recurring.Add(b); err != nil {
			return court.Court{}, fmt.Errorf("recurring[%d]: %w", j, err)
		}
	}

	for j, sp := range cc.SpecialPrices {
		wd, err := domain.ParseWeekday(sp.Weekday)
		if err != nil {
			return court.Court{}, fmt.Errorf("special_prices[%d]: %w", j, err)
		}
		iv, err := timeslot.New(sp.Start, sp.End)
		if err != nil {
			return court.Court{}, fmt.Errorf("special_prices[%d]: %w", j, err)
		}
		if _, err := c.Pricing.AddSpecialPrice(pricing.SpecialPrice{Weekday: wd, Slot: iv, Kind: sp.Kind, Value: sp.Value}); err != nil {
			return court.Court{}, fmt.Errorf("special_prices[%d]: %w", j, err)
		}
	}

	for j, p := range cc.Promotions {
		promo, err := p.promotion(loc)
		if err != nil {
			return court.Court{}, fmt.Errorf("promotions[%d]: %w", j, err)
		}
		if _, err := c.Pricing.AddPromotion(promo); err != nil {
			return court.Court{}, fmt.Errorf("promotions[%d]: %w", j, err)
		}
	}

	if len(cc.Addons) > 0 {
		saved := make([]court.Addon, len(cc.Addons))
		for j, a := range cc.Addons {
			saved[j] = court.Addon{Name: a.Name, Price: a.Price, Enabled: a.Enabled}
		}
		if err := c.SetAddons(saved); err != nil {
			return court.Court{}, fmt.Errorf("addons: %w", err)
		}
	}

	return c, nil
}

func (r RecurringConfig) block(loc *time.Location) (recurring.Block, error) {
	wd, err := domain.ParseWeekday(r.Weekday)
	if err != nil {
		return recurring.Block{}, err
	}
	iv, err := timeslot.New(r.Start, r.End)
	if err != nil {
		return recurring.Block{}, err
	}
	b := recurring.Block{Customer: r.Customer, Weekday: wd, Slot: iv}
	if b.ValidFrom, err = optionalDate(r.ValidFrom, loc); err != nil {
		return recurring.Block{}, fmt.Errorf("valid_from: %w", err)
	}
	if b.ValidTo, err = optionalDate(r.ValidTo, loc); err != nil {
		return recurring.Block{}, fmt.Errorf("valid_to: %w", err)
	}
	return b, nil
}

func (p PromotionConfig) promotion(loc *time.Location) (pricing.Promotion, error) {
	out := pricing.Promotion{Name: p.Name, Kind: p.Kind, Value: p.Value, Active: p.Active}

	var err error
	if out.StartDate, err = domain.ParseDate(p.StartDate, loc); err != nil {
		return pricing.Promotion{}, fmt.Errorf("start_date: invalid format '%s', expected YYYY-MM-DD", p.StartDate)
	}
	if out.EndDate, err = domain.ParseDate(p.EndDate, loc); err != nil {
		return pricing.Promotion{}, fmt.Errorf("end_date: invalid format '%s', expected YYYY-MM-DD", p.EndDate)
	}
	for _, w := range p.Weekdays {
		wd, err := domain.ParseWeekday(w)
		if err != nil {
			return pricing.Promotion{}, err
		}
		out.Weekdays = append(out.Weekdays, wd)
	}
	for j, s := range p.Slots {
		iv, err := timeslot.New(s.Start, s.End)
		if err != nil {
			return pricing.Promotion{}, fmt.Errorf("slots[%d]: %w", j, err)
		}
		out.Slots = append(out.Slots, iv)
	}
	return out, nil
}

func optionalDate(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid format '%s', expected YYYY-MM-DD", s)
	}
	return &d, nil
}
