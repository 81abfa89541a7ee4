package service

import (
	"context"
	"testing"
	"time"

	"repurpose/internal/repository"

	"github.com/rs/zerolog"
)

// fakeClock is a settable Clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func TestUsageKey(t *testing.T) {
	ts := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("PST", -8*3600))
	// 23:30 PST is already the 10th in UTC.
	if got := UsageKey("a@x.com", ts); got != "a@x.com:2024-03-10" {
		t.Errorf("UsageKey = %q", got)
	}
}

func TestUsageServiceCountsPerDay(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc := NewUsageService(repository.NewMemoryUsageStore(), 3, clock.Now, zerolog.Nop())

	if svc.Limit() != 3 {
		t.Fatalf("Limit() = %d", svc.Limit())
	}
	if n, _ := svc.GetUsage(ctx, "a@x.com"); n != 0 {
		t.Fatalf("expected 0 before any generation, got %d", n)
	}
	for want := 1; want <= 2; want++ {
		n, err := svc.IncrementUsage(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("IncrementUsage returned error: %v", err)
		}
		if n != want {
			t.Fatalf("IncrementUsage = %d, want %d", n, want)
		}
	}
	if n, _ := svc.GetUsage(ctx, "b@x.com"); n != 0 {
		t.Fatalf("identities must not share counters, got %d", n)
	}

	clock.t = clock.t.Add(14 * time.Hour) // 2024-05-02 00:00 UTC
	if n, _ := svc.GetUsage(ctx, "a@x.com"); n != 0 {
		t.Fatalf("counter should reset on the next UTC day, got %d", n)
	}
}
