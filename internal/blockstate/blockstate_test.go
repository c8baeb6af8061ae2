package blockstate

import (
	"testing"
	"time"

	"arena/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestState_BlockIndefinite(t *testing.T) {
	s, err := State{}.Block(t0, nil, "maintenance")
	require.NoError(t, err)

	assert.Equal(t, StatusBlockedIndefinite, s.Status(t0))
	assert.Equal(t, StatusBlockedIndefinite, s.Status(t0.AddDate(10, 0, 0)))
	assert.Equal(t, "maintenance", s.Reason)
	require.NotNil(t, s.BlockedAt)
	assert.Equal(t, t0, *s.BlockedAt)
}

func TestState_ScheduledReopenIsLazy(t *testing.T) {
	reopen := t0.Add(48 * time.Hour)
	s, err := State{}.Block(t0, &reopen, "")
	require.NoError(t, err)

	assert.Equal(t, StatusBlockedScheduled, s.Status(t0))
	assert.Equal(t, StatusBlockedScheduled, s.Status(reopen.Add(-time.Second)))
	assert.Equal(t, StatusOpen, s.Status(reopen))
	assert.Equal(t, StatusOpen, s.Status(reopen.Add(time.Hour)))

	// Evaluating does not mutate the stored state.
	assert.True(t, s.ManuallyBlocked)
	assert.Equal(t, StatusBlockedScheduled, s.Status(reopen.Add(-time.Minute)))
}

func TestState_BlockRejectsNonFutureReopen(t *testing.T) {
	for _, reopen := range []time.Time{t0, t0.Add(-time.Second)} {
		r := reopen
		s, err := State{}.Block(t0, &r, "")
		assert.ErrorIs(t, err, domain.ErrInvalidReopenTime)
		assert.Equal(t, StatusOpen, s.Status(t0))
	}
}

func TestState_ReblockOverwritesReopen(t *testing.T) {
	first := t0.Add(time.Hour)
	s, err := State{}.Block(t0, &first, "")
	require.NoError(t, err)

	s, err = s.Block(t0.Add(time.Minute), nil, "")
	require.NoError(t, err)
	assert.Nil(t, s.ScheduledReopenAt)
	assert.Equal(t, StatusBlockedIndefinite, s.Status(first.Add(time.Hour)))

	second := t0.Add(72 * time.Hour)
	s, err = s.Block(t0.Add(2*time.Minute), &second, "")
	require.NoError(t, err)
	assert.Equal(t, second, *s.ScheduledReopenAt)
}

func TestState_UnblockClearsSchedule(t *testing.T) {
	reopen := t0.Add(time.Hour)
	s, err := State{}.Block(t0, &reopen, "rain")
	require.NoError(t, err)

	s = s.Unblock()
	assert.Equal(t, State{}, s)
	assert.Equal(t, StatusOpen, s.Status(t0))
}

func TestState_Settle(t *testing.T) {
	reopen := t0.Add(time.Hour)
	s, err := State{}.Block(t0, &reopen, "")
	require.NoError(t, err)

	assert.Equal(t, s, s.Settle(t0), "not due yet")
	assert.Equal(t, State{}, s.Settle(reopen))

	indefinite, _ := State{}.Block(t0, nil, "")
	assert.Equal(t, indefinite, indefinite.Settle(t0.AddDate(1, 0, 0)))
}

func TestMachine(t *testing.T) {
	m := NewMachine()

	assert.True(t, m.CanTransition(StatusOpen, StatusBlockedIndefinite))
	assert.True(t, m.CanTransition(StatusOpen, StatusBlockedScheduled))
	assert.True(t, m.CanTransition(StatusBlockedScheduled, StatusOpen))
	assert.True(t, m.CanTransition(StatusBlockedIndefinite, StatusOpen))
	assert.False(t, m.CanTransition(StatusBlockedIndefinite, StatusBlockedScheduled))
	assert.False(t, m.CanTransition(StatusBlockedScheduled, StatusBlockedScheduled))

	tr, ok := m.Describe(StatusOpen, StatusBlockedScheduled)
	assert.True(t, ok)
	assert.Equal(t, Transition{From: StatusOpen, To: StatusBlockedScheduled}, tr)

	_, ok = m.Describe(StatusBlockedIndefinite, StatusBlockedScheduled)
	assert.False(t, ok, "re-block is an overwrite")
	_, ok = m.Describe(StatusOpen, StatusOpen)
	assert.False(t, ok)
}
