// Package service is the mutation and query façade over stored courts.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"arena/internal/availability"
	"arena/internal/clock"
	"arena/internal/court"
	"arena/internal/domain"
	"arena/internal/events"
	"arena/internal/metrics"

	"github.com/rs/zerolog"
)

// Repository persists court records with optimistic versioning.
type Repository interface {
	CreateCourt(ctx context.Context, c *court.Court) error
	GetCourt(ctx context.Context, id int64) (court.Court, error)
	ListCourts(ctx context.Context) ([]court.Court, error)
	SaveCourt(ctx context.Context, c court.Court, expectedVersion int64) error
	DeleteCourt(ctx context.Context, id int64) error
	FindCourtByName(ctx context.Context, name string) (court.Court, error)
}

// SnapshotCache is a best-effort read cache.
type SnapshotCache interface {
	Get(ctx context.Context, id int64) (court.Court, bool)
	Set(ctx context.Context, c court.Court)
	Invalidate(ctx context.Context, id int64)
}

// Publisher receives mutation events.
type Publisher interface {
	Publish(event events.Event)
}

// errUnchanged lets a mutation finish without writing.
var errUnchanged = errors.New("unchanged")

// CourtService applies validated mutations one writer at a time per court and answers queries
// from immutable snapshots.
type CourtService struct {
	repo   Repository
	cache  SnapshotCache
	bus    Publisher
	engine *availability.Engine
	clock  clock.Clock
	logger *zerolog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewCourtService wires the service. cache and bus may be nil.
func NewCourtService(repo Repository, cache SnapshotCache, bus Publisher, clk clock.Clock, logger *zerolog.Logger) *CourtService {
	if clk == nil {
		clk = clock.System{}
	}
	if cache == nil {
		cache = noCache{}
	}
	if bus == nil {
		bus = noBus{}
	}
	return &CourtService{
		repo:   repo,
		cache:  cache,
		bus:    bus,
		engine: availability.NewEngine(clk),
		clock:  clk,
		logger: logger,
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Now returns the service clock's current time.
func (s *CourtService) Now() time.Time {
	return s.clock.Now()
}

func (s *CourtService) lockFor(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *CourtService) dropLock(id int64) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

// mutate loads the stored court, applies fn to a deep copy and persists the result with a version
// check. fn failing leaves storage untouched.
func (s *CourtService) mutate(ctx context.Context, id int64, op, eventType string, fn func(c *court.Court, now time.Time) error) (court.Court, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.repo.GetCourt(ctx, id)
	if err != nil {
		s.recordFailure(id, op, err)
		return court.Court{}, err
	}

	now := s.clock.Now()
	next := current.Clone()
	if err := fn(&next, now); err != nil {
		if errors.Is(err, errUnchanged) {
			metrics.IncMutation(op, "noop")
			return current, nil
		}
		s.recordFailure(id, op, err)
		return court.Court{}, err
	}

	next.Block = next.Block.Settle(now)
	next.Version = current.Version + 1
	next.UpdatedAt = now

	if err := s.repo.SaveCourt(ctx, next, current.Version); err != nil {
		s.recordFailure(id, op, err)
		return court.Court{}, err
	}

	s.cache.Invalidate(ctx, id)
	s.publish(eventType, next)
	metrics.IncMutation(op, "ok")
	s.logger.Info().Int64("court_id", id).Str("op", op).Int64("version", next.Version).Msg("court updated")
	return next.Clone(), nil
}

func (s *CourtService) recordFailure(id int64, op string, err error) {
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrUnknownRuleID), errors.Is(err, domain.ErrUnknownCourt):
		metrics.IncMutation(op, "invalid")
		s.logger.Warn().Err(err).Int64("court_id", id).Str("op", op).Msg("mutation rejected")
	case errors.Is(err, domain.ErrConcurrentModification):
		metrics.IncMutation(op, "conflict")
		s.logger.Warn().Err(err).Int64("court_id", id).Str("op", op).Msg("mutation lost a version race")
	default:
		metrics.IncMutation(op, "error")
		s.logger.Error().Err(err).Int64("court_id", id).Str("op", op).Msg("mutation failed")
	}
}

type eventPayload struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (s *CourtService) publish(eventType string, c court.Court) {
	payload, _ := json.Marshal(eventPayload{
		Name:   c.Name,
		Status: string(c.Status(s.clock.Now())),
		Reason: c.Block.Reason,
	})
	s.bus.Publish(events.Event{
		Type:      eventType,
		CourtID:   c.ID,
		Version:   c.Version,
		Payload:   payload,
		CreatedAt: s.clock.Now(),
	})
}

// load returns a snapshot, preferring the cache. A miss is filled under the court's writer lock
// so a fill can never overwrite the invalidation of a newer version.
func (s *CourtService) load(ctx context.Context, id int64) (court.Court, error) {
	if c, ok := s.cache.Get(ctx, id); ok {
		return c, nil
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if c, ok := s.cache.Get(ctx, id); ok {
		return c, nil
	}
	c, err := s.repo.GetCourt(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCourt) {
			s.dropLock(id)
		}
		return court.Court{}, err
	}
	s.cache.Set(ctx, c)
	return c, nil
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (court.Court, bool) { return court.Court{}, false }
func (noCache) Set(context.Context, court.Court)               {}
func (noCache) Invalidate(context.Context, int64)              {}

type noBus struct{}

func (noBus) Publish(events.Event) {}
