package safety

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLimiterSessionCap(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(3, 10)

	for i := 0; i < 3; i++ {
		ok, reason := limiter.CanApply()
		if !ok {
			t.Fatalf("application %d unexpectedly blocked: %s", i+1, reason)
		}
		limiter.RecordApplication()
	}

	ok, reason := limiter.CanApply()
	if ok {
		t.Fatalf("expected session cap to block")
	}
	if reason != "Session limit reached (3)" {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestLimiterSessionCapIndependentOfDaily(t *testing.T) {
	t.Parallel()

	// Session cap equals daily cap here; the session reason must still win
	// because it is checked first.
	limiter := NewLimiter(2, 2)
	limiter.RecordApplication()
	limiter.RecordApplication()

	ok, reason := limiter.CanApply()
	if ok {
		t.Fatalf("expected block at cap")
	}
	if reason != "Session limit reached (2)" {
		t.Fatalf("expected session reason, got %q", reason)
	}
}

func TestLimiterDailyCap(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(100, 1)
	limiter.RecordApplication()

	ok, reason := limiter.CanApply()
	if ok {
		t.Fatalf("expected daily cap to block")
	}
	if reason != "Daily limit reached (1)" {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestLimiterStats(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(3, 10)
	limiter.RecordApplication()

	stats := limiter.Stats()
	if stats.SessionApplied != 1 || stats.SessionLimit != 3 || stats.DailyApplied != 1 || stats.DailyLimit != 10 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPacerShouldCooldown(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(PacerConfig{BreakEvery: 5}, zap.NewNop())

	tests := []struct {
		applied int
		want    bool
	}{
		{applied: 0, want: false},
		{applied: 4, want: false},
		{applied: 5, want: true},
		{applied: 10, want: true},
		{applied: 11, want: false},
	}

	for _, tt := range tests {
		if got := pacer.ShouldCooldown(tt.applied); got != tt.want {
			t.Fatalf("applied=%d: expected %v, got %v", tt.applied, tt.want, got)
		}
	}

	disabled := NewPacer(PacerConfig{BreakEvery: 0}, zap.NewNop())
	if disabled.ShouldCooldown(5) {
		t.Fatalf("cooldown must stay disabled when BreakEvery is zero")
	}
}

func TestPacerCancelledWait(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(PacerConfig{DelayMin: time.Hour, DelayMax: 2 * time.Hour}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pacer.BetweenJobs(ctx); err == nil {
		t.Fatalf("expected context error from cancelled wait")
	}
}

func TestPacerZeroRanges(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(PacerConfig{}, zap.NewNop())
	if err := pacer.BetweenPages(context.Background()); err != nil {
		t.Fatalf("zero-range pause should return immediately: %v", err)
	}
}
