package sim

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker advances a simulation by dt.
type Ticker interface {
	Tick(ctx context.Context, dt time.Duration)
}

// maxStepFactor caps dt after a stall at this many intervals.
const maxStepFactor = 4

// Loop drives a Ticker at a fixed rate with measured, monotonic dt.
type Loop struct {
	target   Ticker
	interval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	ticks    atomic.Uint64
}

// NewLoop creates a loop ticking target every interval.
func NewLoop(target Ticker, interval time.Duration) *Loop {
	return &Loop{
		target:   target,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Run ticks until ctx is canceled or Stop is called (blocks).
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Info("tick loop started", "interval", l.interval)

	last := time.Now()
	maxStep := l.interval * maxStepFactor
	for {
		select {
		case <-ctx.Done():
			slog.Info("tick loop stopping", "ticks", l.ticks.Load())
			return ctx.Err()

		case <-l.stopCh:
			slog.Info("tick loop stopped", "ticks", l.ticks.Load())
			return nil

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > maxStep {
				slog.Warn("tick loop lagging", "dt", dt, "clamped", maxStep)
				dt = maxStep
			}
			if dt <= 0 {
				continue
			}
			l.target.Tick(ctx, dt)
			l.ticks.Add(1)
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Ticks returns the number of ticks run so far.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}
