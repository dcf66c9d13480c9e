package engine

import (
	"context"
	"sync"
	"time"

	"github.com/stemsi/smartexam/internal/model"
)

const (
	DefaultTimerTick      = time.Second
	DefaultWarningWindow  = 5 * time.Minute
	DefaultCriticalWindow = time.Minute
)

// TimerReading is the outcome of one tick.
type TimerReading struct {
	Remaining time.Duration
	Level     model.TimerLevel
}

// TimerOptions tunes a Timer. Zero values take the defaults above.
type TimerOptions struct {
	Tick     time.Duration
	Warning  time.Duration
	Critical time.Duration

	// OnExpire is called once, from the goroutine whose tick observed expiry.
	OnExpire func()
	// OnTick is called after every live tick, including the expiring one.
	OnTick func(TimerReading)
}

// Timer tracks the deadline of one attempt.
type Timer struct {
	mu       sync.Mutex
	clock    Clock
	duration time.Duration
	opts     TimerOptions

	deadline time.Time
	stopped  bool
	expired  bool
	stopCh   chan struct{}
}

// NewTimer starts counting down from clock.Now().
func NewTimer(clock Clock, duration time.Duration, opts TimerOptions) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTimerTick
	}
	if opts.Warning <= 0 {
		opts.Warning = DefaultWarningWindow
	}
	if opts.Critical <= 0 {
		opts.Critical = DefaultCriticalWindow
	}

	t := &Timer{clock: clock, duration: duration, opts: opts}
	t.arm()
	return t
}

func (t *Timer) arm() {
	t.deadline = t.clock.Now().Add(t.duration)
	t.stopped = false
	t.expired = false
	t.stopCh = make(chan struct{})
}

// Deadline returns start + duration.
func (t *Timer) Deadline() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.deadline
}

// Reading reports the remaining time without side effects.
func (t *Timer) Reading() TimerReading {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readingLocked()
}

func (t *Timer) readingLocked() TimerReading {
	if t.expired {
		return TimerReading{Level: model.TimerLevelExpired}
	}
	remaining := t.deadline.Sub(t.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	return TimerReading{
		Remaining: remaining,
		Level:     LevelFor(remaining, t.opts.Warning, t.opts.Critical),
	}
}

// Tick recomputes the remaining time. When it reaches zero OnExpire runs once
// and the timer stops. Ticks after Stop or expiry change nothing.
func (t *Timer) Tick() TimerReading {
	t.mu.Lock()
	if t.stopped || t.expired {
		r := t.readingLocked()
		t.mu.Unlock()
		return r
	}

	r := t.readingLocked()
	fire := r.Remaining == 0
	if fire {
		t.expired = true
		r.Level = model.TimerLevelExpired
		close(t.stopCh)
	}
	onTick, onExpire := t.opts.OnTick, t.opts.OnExpire
	t.mu.Unlock()

	if onTick != nil {
		onTick(r)
	}
	if fire && onExpire != nil {
		onExpire()
	}
	return r
}

// Run drives Tick until expiry, Stop, or ctx cancellation.
func (t *Timer) Run(ctx context.Context) {
	t.mu.Lock()
	stopCh := t.stopCh
	interval := t.opts.Tick
	t.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Stop halts the countdown. Safe to call more than once.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || t.expired {
		return
	}
	t.stopped = true
	close(t.stopCh)
}

// Stopped reports whether the timer was stopped or has expired.
func (t *Timer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped || t.expired
}

// Reset restarts the countdown from the full duration. A running Run loop
// exits; call Run again to keep ticking.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.stopped && !t.expired {
		close(t.stopCh)
	}
	t.arm()
}

// LevelFor maps remaining time to the advisory level.
func LevelFor(remaining, warning, critical time.Duration) model.TimerLevel {
	switch {
	case remaining <= 0:
		return model.TimerLevelExpired
	case remaining <= critical:
		return model.TimerLevelCritical
	case remaining <= warning:
		return model.TimerLevelWarning
	default:
		return model.TimerLevelNormal
	}
}
