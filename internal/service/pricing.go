package service

import (
	"context"
	"time"

	"arena/internal/court"
	"arena/internal/events"
	"arena/internal/pricing"
)

func (s *CourtService) AddSpecialPrice(ctx context.Context, id int64, p pricing.SpecialPrice) (pricing.SpecialPrice, error) {
	var added pricing.SpecialPrice
	_, err := s.mutate(ctx, id, "add_special_price", events.PricingChanged, func(c *court.Court, _ time.Time) error {
		var err error
		added, err = c.Pricing.AddSpecialPrice(p)
		return err
	})
	if err != nil {
		return pricing.SpecialPrice{}, err
	}
	return added, nil
}

func (s *CourtService) UpdateSpecialPrice(ctx context.Context, id int64, ruleID string, p pricing.SpecialPrice) (court.Court, error) {
	return s.mutate(ctx, id, "update_special_price", events.PricingChanged, func(c *court.Court, _ time.Time) error {
		return c.Pricing.UpdateSpecialPrice(ruleID, p)
	})
}

func (s *CourtService) RemoveSpecialPrice(ctx context.Context, id int64, ruleID string) (court.Court, error) {
	return s.mutate(ctx, id, "remove_special_price", events.PricingChanged, func(c *court.Court, _ time.Time) error {
		return c.Pricing.RemoveSpecialPrice(ruleID)
	})
}

func (s *CourtService) AddPromotion(ctx context.Context, id int64, p pricing.Promotion) (pricing.Promotion, error) {
	var added pricing.Promotion
	_, err := s.mutate(ctx, id, "add_promotion", events.PricingChanged, func(c *court.Court, _ time.Time) error {
		var err error
		added, err = c.Pricing.AddPromotion(p)
		return err
	})
	if err != nil {
		return pricing.Promotion{}, err
	}
	return added, nil
}

func (s *CourtService) UpdatePromotion(ctx context.Context, id int64, ruleID string, p pricing.Promotion) (court.Court, error) {
	return s.mutate(ctx, id, "update_promotion", events.PricingChanged, func(c *court.Court, _ time.Time) error {
		return c.Pricing.UpdatePromotion(ruleID, p)
	})
}

// SetPromotionActive toggles a promotion on or off.
func (s *CourtService) SetPromotionActive(ctx context.Context, id int64, ruleID string, active bool) (court.Court, error) {
	return s.mutate(ctx, id, "set_promotion_active", events.PricingChanged, func(c *court.Court, _ time.Time) error {
		return c.Pricing.SetPromotionActive(ruleID, active)
	})
}

func (s *CourtService) RemovePromotion(ctx context.Context, id int64, ruleID string) (court.Court, error) {
	return s.mutate(ctx, id, "remove_promotion", events.PricingChanged, func(c *court.Court, _ time.Time) error {
		return c.Pricing.RemovePromotion(ruleID)
	})
}
