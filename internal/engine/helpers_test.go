package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stemsi/smartexam/internal/model"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// reverseShuffler is deterministic and still moves every element.
var reverseShuffler = ShufflerFunc(func(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
})

var identityShuffler = ShufflerFunc(func(int, func(i, j int)) {})

type poolSource map[model.Difficulty][]model.Question

func (p poolSource) ListByDifficulty(_ context.Context, d model.Difficulty) ([]model.Question, error) {
	return p[d], nil
}

func makeQuestions(d model.Difficulty, subject string, n int) []model.Question {
	out := make([]model.Question, n)
	for i := range out {
		out[i] = model.Question{
			ID:                 fmt.Sprintf("%s-%d", d, i+1),
			Text:               fmt.Sprintf("%s question %d", d, i+1),
			Options:            []string{"A", "B", "C", "D"},
			CorrectAnswerIndex: i % 4,
			Difficulty:         d,
			Subject:            subject,
		}
	}
	return out
}

func fullPool() poolSource {
	return poolSource{
		model.DifficultyEasy:   makeQuestions(model.DifficultyEasy, "Polity", 4),
		model.DifficultyMedium: makeQuestions(model.DifficultyMedium, "Geography", 4),
		model.DifficultyHard:   makeQuestions(model.DifficultyHard, "Polity", 4),
	}
}

type hookRecorder struct {
	mu      sync.Mutex
	calls   int
	snap    model.ExamSession
	reasons []model.CompletionReason
}

func (h *hookRecorder) hook(snap model.ExamSession, reason model.CompletionReason) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.snap = snap
	h.reasons = append(h.reasons, reason)
}

func (h *hookRecorder) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}
