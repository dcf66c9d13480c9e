package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stemsi/smartexam/internal/model"
)

func TestLevelFor(t *testing.T) {
	cases := []struct {
		remaining time.Duration
		want      model.TimerLevel
	}{
		{30 * time.Minute, model.TimerLevelNormal},
		{5*time.Minute + time.Second, model.TimerLevelNormal},
		{5 * time.Minute, model.TimerLevelWarning},
		{61 * time.Second, model.TimerLevelWarning},
		{time.Minute, model.TimerLevelCritical},
		{time.Second, model.TimerLevelCritical},
		{0, model.TimerLevelExpired},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.remaining, DefaultWarningWindow, DefaultCriticalWindow); got != tc.want {
			t.Errorf("LevelFor(%v) = %s, want %s", tc.remaining, got, tc.want)
		}
	}
}

func TestTimerExpiresOnceAfterDeadline(t *testing.T) {
	clock := newManualClock()
	var expired int32
	tm := NewTimer(clock, time.Minute, TimerOptions{
		OnExpire: func() { atomic.AddInt32(&expired, 1) },
	})

	for i := 0; i < 59; i++ {
		clock.Advance(time.Second)
		r := tm.Tick()
		if r.Level == model.TimerLevelExpired {
			t.Fatalf("expired early at +%ds", i+1)
		}
	}
	if atomic.LoadInt32(&expired) != 0 {
		t.Fatal("OnExpire called before deadline")
	}

	clock.Advance(2 * time.Second)
	r := tm.Tick()
	if r.Level != model.TimerLevelExpired || r.Remaining != 0 {
		t.Fatalf("reading at +61s = %+v", r)
	}

	clock.Advance(time.Second)
	tm.Tick()
	tm.Tick()
	if n := atomic.LoadInt32(&expired); n != 1 {
		t.Fatalf("OnExpire calls = %d, want 1", n)
	}
	if !tm.Stopped() {
		t.Fatal("timer still running after expiry")
	}
}

func TestTimerExpiryCompletesSession(t *testing.T) {
	clock := newManualClock()
	h := &hookRecorder{}
	s := newTestSession(t, 3, clock, h)

	tm := NewTimer(clock, time.Minute, TimerOptions{
		OnExpire: func() { s.ForceComplete() },
	})

	clock.Advance(61 * time.Second)
	tm.Tick()
	tm.Tick()

	if h.count() != 1 {
		t.Fatalf("hook calls = %d, want 1", h.count())
	}
	if h.reasons[0] != model.CompletionExpired {
		t.Fatalf("reason = %s", h.reasons[0])
	}
	if s.Status() != model.SessionStatusCompleted {
		t.Fatalf("status = %s", s.Status())
	}
}

func TestTimerStopSuppressesExpiry(t *testing.T) {
	clock := newManualClock()
	called := false
	tm := NewTimer(clock, time.Minute, TimerOptions{OnExpire: func() { called = true }})

	tm.Stop()
	tm.Stop()
	clock.Advance(2 * time.Minute)
	tm.Tick()

	if called {
		t.Fatal("OnExpire called after Stop")
	}
}

func TestTimerResetRestartsFullDuration(t *testing.T) {
	clock := newManualClock()
	tm := NewTimer(clock, 10*time.Minute, TimerOptions{})

	clock.Advance(8 * time.Minute)
	if r := tm.Tick(); r.Level != model.TimerLevelWarning {
		t.Fatalf("level = %s, want warning", r.Level)
	}

	tm.Reset()
	r := tm.Tick()
	if r.Remaining != 10*time.Minute || r.Level != model.TimerLevelNormal {
		t.Fatalf("after reset = %+v", r)
	}
	if !tm.Deadline().Equal(clock.Now().Add(10 * time.Minute)) {
		t.Fatalf("deadline = %v", tm.Deadline())
	}
}

func TestTimerOnTickReportsReading(t *testing.T) {
	clock := newManualClock()
	var last TimerReading
	tm := NewTimer(clock, 2*time.Minute, TimerOptions{OnTick: func(r TimerReading) { last = r }})

	clock.Advance(90 * time.Second)
	tm.Tick()
	if last.Remaining != 30*time.Second || last.Level != model.TimerLevelCritical {
		t.Fatalf("last reading = %+v", last)
	}
}

func TestTimerRunStopsOnExpiry(t *testing.T) {
	done := make(chan struct{})
	tm := NewTimer(SystemClock{}, 20*time.Millisecond, TimerOptions{
		Tick:     5 * time.Millisecond,
		OnExpire: func() { close(done) },
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	finished := make(chan struct{})
	go func() {
		tm.Run(ctx)
		close(finished)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("timer never expired")
	}
	select {
	case <-finished:
	case <-ctx.Done():
		t.Fatal("Run did not return after expiry")
	}
}

func TestTimerRunReturnsOnStop(t *testing.T) {
	tm := NewTimer(SystemClock{}, time.Hour, TimerOptions{Tick: time.Millisecond})

	finished := make(chan struct{})
	go func() {
		tm.Run(context.Background())
		close(finished)
	}()

	tm.Stop()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
