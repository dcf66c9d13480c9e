package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/engine"
	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/repository"
	"github.com/stemsi/smartexam/internal/store"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
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

type recordingSink struct {
	mu      sync.Mutex
	results []*model.ExamResult
	err     error
}

func (s *recordingSink) PersistResult(_ context.Context, res *model.ExamResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

type fixture struct {
	svc       *ExamSessionService
	clock     *manualClock
	sink      *recordingSink
	exams     *repository.ExamRepository
	questions *repository.QuestionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.NewMemoryStore()
	f := &fixture{
		clock:     &manualClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		sink:      &recordingSink{},
		exams:     repository.NewExamRepository(st),
		questions: repository.NewQuestionRepository(st),
	}

	n := 0
	f.svc = NewExamSessionService(f.exams, f.questions, f.sink, SessionOptions{
		Clock:        f.clock,
		Shuffler:     engine.ShufflerFunc(func(int, func(i, j int)) {}),
		NewID:        func() string { n++; return fmt.Sprintf("sess-%d", n) },
		Retention:    10 * time.Minute,
		ManualTimers: true,
	}, zerolog.Nop())
	return f
}

func (f *fixture) attempt(t *testing.T, id string) *attempt {
	t.Helper()
	att, err := f.svc.get(id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return att
}

func intPtr(v int) *int { return &v }
