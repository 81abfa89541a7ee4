package service

import (
	"context"
	"fmt"
	"time"

	"repurpose/internal/repository"

	"github.com/rs/zerolog"
)

// Clock returns the current time. Swapped out in tests to cross day boundaries.
type Clock func() time.Time

// UsageService counts free generations per identity per UTC calendar day.
type UsageService interface {
	// GetUsage returns today's count for identity, 0 if none.
	GetUsage(ctx context.Context, identity string) (int, error)
	// IncrementUsage adds one to today's count and returns the new value.
	IncrementUsage(ctx context.Context, identity string) (int, error)
	// Limit is the daily free-tier quota.
	Limit() int
}

type usageService struct {
	store  repository.UsageStore
	limit  int
	now    Clock
	logger zerolog.Logger
}

// NewUsageService creates a UsageService. A nil clock uses time.Now.
func NewUsageService(store repository.UsageStore, limit int, now Clock, logger zerolog.Logger) UsageService {
	if now == nil {
		now = time.Now
	}
	return &usageService{
		store:  store,
		limit:  limit,
		now:    now,
		logger: logger.With().Str("service", "UsageService").Logger(),
	}
}

// UsageKey is identity joined with the UTC date, so counters partition by day
// without any cleanup.
func UsageKey(identity string, t time.Time) string {
	return identity + ":" + t.UTC().Format(time.DateOnly)
}

func (s *usageService) GetUsage(ctx context.Context, identity string) (int, error) {
	n, err := s.store.Get(ctx, UsageKey(identity, s.now()))
	if err != nil {
		s.logger.Error().Err(err).Str("identity", identity).Msg("Failed to read usage")
		return 0, fmt.Errorf("get usage: %w", err)
	}
	return n, nil
}

func (s *usageService) IncrementUsage(ctx context.Context, identity string) (int, error) {
	n, err := s.store.Increment(ctx, UsageKey(identity, s.now()))
	if err != nil {
		s.logger.Error().Err(err).Str("identity", identity).Msg("Failed to increment usage")
		return 0, fmt.Errorf("increment usage: %w", err)
	}
	return n, nil
}

func (s *usageService) Limit() int {
	return s.limit
}
