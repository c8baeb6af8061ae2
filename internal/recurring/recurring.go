// Package recurring resolves standing weekly reservations held by monthly customers.
// Recurring blocks overlay the weekly template; they are never merged into it.
package recurring

import (
	"fmt"
	"strings"
	"time"

	"arena/internal/domain"
	"arena/internal/schedule"
	"arena/internal/timeslot"
)

// Block is a standing reservation of Slot on every Weekday between ValidFrom and ValidTo inclusive.
// A nil bound leaves that side open.
type Block struct {
	ID        string            `json:"id"`
	Customer  string            `json:"customer,omitempty"`
	Weekday   time.Weekday      `json:"weekday"`
	Slot      timeslot.Interval `json:"slot"`
	ValidFrom *time.Time        `json:"valid_from,omitempty"`
	ValidTo   *time.Time        `json:"valid_to,omitempty"`
}

// Validate checks weekday, slot and date bounds.
func (b Block) Validate() error {
	if err := domain.ValidateWeekday(b.Weekday); err != nil {
		return err
	}
	if err := b.Slot.Validate(); err != nil {
		return err
	}
	if b.ValidFrom != nil && b.ValidTo != nil && domain.CompareDates(*b.ValidFrom, *b.ValidTo) > 0 {
		return fmt.Errorf("%w: valid_from %s is after valid_to %s", domain.ErrInvalidDateRange,
			b.ValidFrom.Format(domain.DateLayout), b.ValidTo.Format(domain.DateLayout))
	}
	return nil
}

// ActiveOn reports whether the block applies to the calendar date d.
func (b Block) ActiveOn(d time.Time) bool {
	if d.Weekday() != b.Weekday {
		return false
	}
	if b.ValidFrom != nil && domain.CompareDates(d, *b.ValidFrom) < 0 {
		return false
	}
	if b.ValidTo != nil && domain.CompareDates(d, *b.ValidTo) > 0 {
		return false
	}
	return true
}

func (b Block) clone() Block {
	out := b
	if b.ValidFrom != nil {
		v := *b.ValidFrom
		out.ValidFrom = &v
	}
	if b.ValidTo != nil {
		v := *b.ValidTo
		out.ValidTo = &v
	}
	return out
}

// Set is the ordered collection of recurring blocks of one court, addressed by ID.
type Set struct {
	Blocks []Block `json:"blocks"`
}

// Add validates b, assigns a fresh ID and appends it.
func (s *Set) Add(b Block) (Block, error) {
	if err := b.Validate(); err != nil {
		return Block{}, err
	}
	b.Customer = strings.TrimSpace(b.Customer)
	b.ID = domain.NewID()
	s.Blocks = append(s.Blocks, b.clone())
	return b, nil
}

// Update replaces the block with the given ID, keeping its position.
func (s *Set) Update(id string, b Block) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: recurring block %q", domain.ErrUnknownRuleID, id)
	}
	if err := b.Validate(); err != nil {
		return err
	}
	b.ID = id
	b.Customer = strings.TrimSpace(b.Customer)
	s.Blocks[idx] = b.clone()
	return nil
}

// Remove deletes the block with the given ID.
func (s *Set) Remove(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: recurring block %q", domain.ErrUnknownRuleID, id)
	}
	s.Blocks = append(s.Blocks[:idx:idx], s.Blocks[idx+1:]...)
	return nil
}

// Get returns the block with the given ID.
func (s *Set) Get(id string) (Block, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Block{}, false
	}
	return s.Blocks[idx].clone(), true
}

// BlockingOn returns the first block active on date whose slot overlaps iv.
func (s *Set) BlockingOn(weekday time.Weekday, date time.Time, iv timeslot.Interval) (Block, bool) {
	for _, b := range s.Blocks {
		if b.Weekday != weekday || !b.ActiveOn(date) {
			continue
		}
		if timeslot.Overlaps(b.Slot, iv) {
			return b.clone(), true
		}
	}
	return Block{}, false
}

// IsBlocked reports whether any block active on date overlaps iv.
func (s *Set) IsBlocked(weekday time.Weekday, date time.Time, iv timeslot.Interval) bool {
	_, ok := s.BlockingOn(weekday, date, iv)
	return ok
}

// ConflictsWithTemplate lists blocks of weekday whose slot is not covered by the day's open slots.
// A closed day conflicts with all of its blocks. The result is advisory only.
func (s *Set) ConflictsWithTemplate(weekday time.Weekday, day schedule.Day) []Block {
	open := day.OpenIntervals()
	var conflicts []Block
	for _, b := range s.Blocks {
		if b.Weekday != weekday {
			continue
		}
		if !timeslot.Covered(b.Slot, open) {
			conflicts = append(conflicts, b.clone())
		}
	}
	return conflicts
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	if s.Blocks == nil {
		return Set{}
	}
	out := Set{Blocks: make([]Block, len(s.Blocks))}
	for i, b := range s.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

// RenewIDs assigns fresh IDs to every block.
func (s *Set) RenewIDs() {
	for i := range s.Blocks {
		s.Blocks[i].ID = domain.NewID()
	}
}

func (s *Set) indexOf(id string) int {
	for i, b := range s.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}
