package pricing

import (
	"fmt"
	"strings"

	"arena/internal/domain"
)

// Book is the ordered set of pricing rules of one court. Slice order is creation order and
// breaks ties during resolution.
type Book struct {
	SpecialPrices []SpecialPrice `json:"special_prices"`
	Promotions    []Promotion    `json:"promotions"`
}

// AddSpecialPrice validates p and appends it with a fresh ID.
func (b *Book) AddSpecialPrice(p SpecialPrice) (SpecialPrice, error) {
	if err := p.Validate(); err != nil {
		return SpecialPrice{}, err
	}
	p.ID = domain.NewID()
	b.SpecialPrices = append(b.SpecialPrices, p)
	return p, nil
}

// UpdateSpecialPrice replaces a special price in place.
func (b *Book) UpdateSpecialPrice(id string, p SpecialPrice) error {
	idx := b.specialIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: special price %q", domain.ErrUnknownRuleID, id)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.ID = id
	b.SpecialPrices[idx] = p
	return nil
}

// RemoveSpecialPrice deletes a special price by ID.
func (b *Book) RemoveSpecialPrice(id string) error {
	idx := b.specialIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: special price %q", domain.ErrUnknownRuleID, id)
	}
	b.SpecialPrices = append(b.SpecialPrices[:idx:idx], b.SpecialPrices[idx+1:]...)
	return nil
}

// AddPromotion validates p and appends it with a fresh ID.
func (b *Book) AddPromotion(p Promotion) (Promotion, error) {
	if err := p.Validate(); err != nil {
		return Promotion{}, err
	}
	p.ID = domain.NewID()
	p.Name = strings.TrimSpace(p.Name)
	p = p.clone()
	b.Promotions = append(b.Promotions, p)
	return p.clone(), nil
}

// UpdatePromotion replaces a promotion in place.
func (b *Book) UpdatePromotion(id string, p Promotion) error {
	idx := b.promotionIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: promotion %q", domain.ErrUnknownRuleID, id)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.ID = id
	p.Name = strings.TrimSpace(p.Name)
	b.Promotions[idx] = p.clone()
	return nil
}

// SetPromotionActive toggles a promotion without touching its other fields.
func (b *Book) SetPromotionActive(id string, active bool) error {
	idx := b.promotionIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: promotion %q", domain.ErrUnknownRuleID, id)
	}
	b.Promotions[idx].Active = active
	return nil
}

// RemovePromotion deletes a promotion by ID.
func (b *Book) RemovePromotion(id string) error {
	idx := b.promotionIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: promotion %q", domain.ErrUnknownRuleID, id)
	}
	b.Promotions = append(b.Promotions[:idx:idx], b.Promotions[idx+1:]...)
	return nil
}

// Clone returns an independent copy of b.
func (b Book) Clone() Book {
	out := Book{SpecialPrices: append([]SpecialPrice(nil), b.SpecialPrices...)}
	if b.Promotions != nil {
		out.Promotions = make([]Promotion, len(b.Promotions))
		for i, p := range b.Promotions {
			out.Promotions[i] = p.clone()
		}
	}
	return out
}

// RenewIDs assigns fresh IDs to every rule.
func (b *Book) RenewIDs() {
	for i := range b.SpecialPrices {
		b.SpecialPrices[i].ID = domain.NewID()
	}
	for i := range b.Promotions {
		b.Promotions[i].ID = domain.NewID()
	}
}

func (b *Book) specialIndex(id string) int {
	for i, p := range b.SpecialPrices {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (b *Book) promotionIndex(id string) int {
	for i, p := range b.Promotions {
		if p.ID == id {
			return i
		}
	}
	return -1
}
