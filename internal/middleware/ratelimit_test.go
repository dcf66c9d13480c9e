package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterRefillsPerInterval(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests rejected")
	}
	if rl.Allow("a") {
		t.Fatal("third request allowed")
	}
	if !rl.Allow("b") {
		t.Fatal("other client throttled")
	}

	now = now.Add(59 * time.Second)
	if rl.Allow("a") {
		t.Fatal("refilled before interval")
	}
	now = now.Add(time.Second)
	if !rl.Allow("a") {
		t.Fatal("not refilled after interval")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(4 * time.Minute)
	rl.cleanup()
	if len(rl.visitors) != 0 {
		t.Fatalf("visitors = %d", len(rl.visitors))
	}
}
