package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arena/internal/config"
	"arena/internal/domain"
)

// ApplySeed creates the seed courts that do not exist yet, matched by name. Existing courts are
// never overwritten. It returns the number of courts created.
func (s *CourtService) ApplySeed(ctx context.Context, cfg *config.CourtsConfig, loc *time.Location) (int, error) {
	created := 0
	for i, cc := range cfg.Courts {
		_, err := s.repo.FindCourtByName(ctx, cc.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUnknownCourt) {
			return created, fmt.Errorf("courts[%d]: %w", i, err)
		}

		c, err := cc.Build(loc)
		if err != nil {
			return created, fmt.Errorf("courts[%d]: %w", i, err)
		}
		if _, err := s.insert(ctx, c, "seed_court"); err != nil {
			return created, fmt.Errorf("courts[%d]: %w", i, err)
		}
		created++
	}
	if created > 0 {
		s.logger.Info().Int("created", created).Msg("seed courts applied")
	}
	return created, nil
}
