// Package blockstate implements the court-wide block / scheduled reopen state machine.
//
// The scheduled reopen is evaluated lazily: Status derives the current status from the stored
// state and the caller's clock, so no timer is needed and concurrent readers agree.
package blockstate

import (
	"fmt"
	"time"

	"arena/internal/domain"
)

// Status is the evaluated state of a court.
type Status string

const (
	StatusOpen              Status = "open"
	StatusBlockedIndefinite Status = "blocked_indefinite"
	StatusBlockedScheduled  Status = "blocked_scheduled"
)

// Blocked reports whether s suspends bookings.
func (s Status) Blocked() bool {
	return s != StatusOpen
}

// State is the stored block configuration.
type State struct {
	ManuallyBlocked   bool       `json:"manually_blocked"`
	ScheduledReopenAt *time.Time `json:"scheduled_reopen_at,omitempty"`
	BlockedAt         *time.Time `json:"blocked_at,omitempty"`
	Reason            string     `json:"reason,omitempty"`
}

// Status evaluates the state at now.
func (s State) Status(now time.Time) Status {
	if !s.ManuallyBlocked {
		return StatusOpen
	}
	if s.ScheduledReopenAt == nil {
		return StatusBlockedIndefinite
	}
	if !now.Before(*s.ScheduledReopenAt) {
		return StatusOpen
	}
	return StatusBlockedScheduled
}

// Block suspends the court at the given time. A nil reopenAt blocks indefinitely; otherwise
// reopenAt must be strictly after at. Blocking an already blocked court overwrites the reopen time.
func (s State) Block(at time.Time, reopenAt *time.Time, reason string) (State, error) {
	if reopenAt != nil && !reopenAt.After(at) {
		return s, fmt.Errorf("%w: %s is not after %s", domain.ErrInvalidReopenTime,
			reopenAt.Format(time.RFC3339), at.Format(time.RFC3339))
	}

	next := State{ManuallyBlocked: true, Reason: reason}
	blockedAt := at
	next.BlockedAt = &blockedAt
	if reopenAt != nil {
		v := *reopenAt
		next.ScheduledReopenAt = &v
	}
	return next, nil
}

// Unblock reopens the court and clears any scheduled reopen.
func (s State) Unblock() State {
	return State{}
}

// Settle materializes a reopen that is already due at now. It never changes Status(now).
func (s State) Settle(now time.Time) State {
	if s.ManuallyBlocked && s.Status(now) == StatusOpen {
		return State{}
	}
	return s
}

// Clone returns a copy that shares no pointers with s.
func (s State) Clone() State {
	out := s
	if s.ScheduledReopenAt != nil {
		v := *s.ScheduledReopenAt
		out.ScheduledReopenAt = &v
	}
	if s.BlockedAt != nil {
		v := *s.BlockedAt
		out.BlockedAt = &v
	}
	return out
}

// Transition is an allowed status change.
type Transition struct {
	From Status
	To   Status
}

// Machine documents the allowed transitions. Re-blocking a blocked court is an overwrite,
// not a transition, so blocked statuses only lead back to open.
type Machine struct {
	transitions map[Status][]Status
}

// NewMachine creates the machine with the fixed transition table.
func NewMachine() *Machine {
	return &Machine{
		transitions: map[Status][]Status{
			StatusOpen:              {StatusBlockedIndefinite, StatusBlockedScheduled},
			StatusBlockedIndefinite: {StatusOpen},
			StatusBlockedScheduled:  {StatusOpen},
		},
	}
}

// CanTransition checks if from -> to is allowed.
func (m *Machine) CanTransition(from, to Status) bool {
	for _, s := range m.transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Describe classifies the change between two evaluated statuses. ok is false for a no-op or an
// overwrite between blocked statuses.
func (m *Machine) Describe(before, after Status) (Transition, bool) {
	if before == after || !m.CanTransition(before, after) {
		return Transition{}, false
	}
	return Transition{From: before, To: after}, true
}
