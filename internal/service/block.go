package service

import (
	"context"
	"time"

	"arena/internal/blockstate"
	"arena/internal/court"
	"arena/internal/events"
)

var blockMachine = blockstate.NewMachine()

// Block suspends a court, indefinitely when reopenAt is nil. reopenAt must be after now.
// Blocking a blocked court overwrites its reopen time and reason.
func (s *CourtService) Block(ctx context.Context, id int64, reopenAt *time.Time, reason string) (court.Court, error) {
	return s.mutate(ctx, id, "block", events.CourtBlocked, func(c *court.Court, now time.Time) error {
		next, err := c.Block.Block(now, reopenAt, reason)
		if err != nil {
			return err
		}
		s.logTransition(c.ID, c.Block.Status(now), next.Status(now))
		c.Block = next
		return nil
	})
}

// Unblock reopens a court. Unblocking an open court changes nothing.
func (s *CourtService) Unblock(ctx context.Context, id int64) (court.Court, error) {
	return s.mutate(ctx, id, "unblock", events.CourtUnblocked, func(c *court.Court, now time.Time) error {
		if !c.Block.Status(now).Blocked() {
			return errUnchanged
		}
		next := c.Block.Unblock()
		s.logTransition(c.ID, c.Block.Status(now), next.Status(now))
		c.Block = next
		return nil
	})
}

func (s *CourtService) logTransition(id int64, before, after blockstate.Status) {
	t, ok := blockMachine.Describe(before, after)
	if !ok {
		s.logger.Debug().Int64("court_id", id).Str("status", string(after)).Msg("block state overwritten")
		return
	}
	s.logger.Info().Int64("court_id", id).Str("from", string(t.From)).Str("to", string(t.To)).Msg("block state transition")
}
