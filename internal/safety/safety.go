// Package safety provides admission control and pacing for the application
// loop: hard session/day caps, randomized delays between jobs, and periodic
// long cooldowns. Caps protect the account; pacing keeps the action rate
// human-shaped.
package safety

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/seeker-agent/seeker/internal/utils"
)

// Limiter tracks how many applications this process has submitted and gates
// new ones. Counters only ever grow for the process lifetime.
type Limiter struct {
	maxPerSession int
	maxPerDay     int
	sessionCount  int
	dailyCount    int
}

// NewLimiter builds a limiter with the given caps.
func NewLimiter(maxPerSession, maxPerDay int) *Limiter {
	return &Limiter{
		maxPerSession: maxPerSession,
		maxPerDay:     maxPerDay,
	}
}

// CanApply reports whether another application may start. The session cap is
// checked before the daily cap; the first violated cap supplies the reason.
func (l *Limiter) CanApply() (bool, string) {
	if l.sessionCount >= l.maxPerSession {
		return false, fmt.Sprintf("Session limit reached (%d)", l.maxPerSession)
	}

	if l.dailyCount >= l.maxPerDay {
		return false, fmt.Sprintf("Daily limit reached (%d)", l.maxPerDay)
	}

	return true, "OK"
}

// RecordApplication increments both counters. Called exactly once per job
// that ends up applied.
func (l *Limiter) RecordApplication() {
	l.sessionCount++
	l.dailyCount++
}

// Stats is a snapshot of the limiter counters.
type Stats struct {
	SessionApplied int
	SessionLimit   int
	DailyApplied   int
	DailyLimit     int
}

func (l *Limiter) Stats() Stats {
	return Stats{
		SessionApplied: l.sessionCount,
		SessionLimit:   l.maxPerSession,
		DailyApplied:   l.dailyCount,
		DailyLimit:     l.maxPerDay,
	}
}

// PacerConfig holds the pacing ranges. Every wait blocks until it elapses
// or the context is cancelled.
type PacerConfig struct {
	// DelayMin/DelayMax bound the randomized pause between jobs.
	DelayMin time.Duration
	DelayMax time.Duration
	// PauseMin/PauseMax bound the short pause between form-loop iterations.
	PauseMin time.Duration
	PauseMax time.Duration
	// BreakEvery triggers a long cooldown after every N successful
	// applications; CooldownMin/CooldownMax bound its length.
	BreakEvery  int
	CooldownMin time.Duration
	CooldownMax time.Duration
}

// Pacer issues the blocking waits between jobs and form pages.
type Pacer struct {
	cfg    PacerConfig
	logger *zap.Logger
	rand   *rand.Rand
}

func NewPacer(cfg PacerConfig, logger *zap.Logger) *Pacer {
	return &Pacer{
		cfg:    cfg,
		logger: logger,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *Pacer) between(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(p.rand.Int63n(int64(max-min)))
}

// BetweenJobs blocks for a randomized human-like delay before the next job.
func (p *Pacer) BetweenJobs(ctx context.Context) error {
	d := p.between(p.cfg.DelayMin, p.cfg.DelayMax)
	p.logger.Info("pacing before next job", zap.Duration("delay", d))
	return utils.WaitFor(ctx, d)
}

// BetweenPages blocks for a short pause between form-loop iterations.
func (p *Pacer) BetweenPages(ctx context.Context) error {
	return utils.WaitFor(ctx, p.between(p.cfg.PauseMin, p.cfg.PauseMax))
}

// ShouldCooldown reports whether the long cooldown is due after the given
// number of successful applications.
func (p *Pacer) ShouldCooldown(applied int) bool {
	return p.cfg.BreakEvery > 0 && applied > 0 && applied%p.cfg.BreakEvery == 0
}

// Cooldown blocks for the long randomized break.
func (p *Pacer) Cooldown(ctx context.Context) error {
	d := p.between(p.cfg.CooldownMin, p.cfg.CooldownMax)
	p.logger.Info("taking a cooldown break", zap.Duration("duration", d))
	return utils.WaitFor(ctx, d)
}
