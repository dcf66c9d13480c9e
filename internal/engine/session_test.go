package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stemsi/smartexam/internal/model"
)

func newTestSession(t *testing.T, n int, clock Clock, h *hookRecorder) *Session {
	t.Helper()
	var hook CompletionHook
	if h != nil {
		hook = h.hook
	}
	s, err := NewSession("s1", "exam-1", makeQuestions(model.DifficultyEasy, "Polity", n), clock, hook)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSessionStartsInProgress(t *testing.T) {
	clock := newManualClock()
	s := newTestSession(t, 3, clock, nil)

	snap := s.Snapshot()
	if snap.Status != model.SessionStatusInProgress {
		t.Fatalf("status = %s", snap.Status)
	}
	if snap.CurrentIndex != 0 || len(snap.Answers) != 0 || snap.Completed {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
	if !snap.StartTime.Equal(clock.Now()) {
		t.Fatalf("start = %v, want %v", snap.StartTime, clock.Now())
	}
}

func TestNewSessionRejectsEmpty(t *testing.T) {
	if _, err := NewSession("s", "e", nil, nil, nil); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("err = %v, want ErrInvalidSession", err)
	}
}

func TestRecordAnswerLastWriteWins(t *testing.T) {
	s := newTestSession(t, 3, newManualClock(), nil)

	if err := s.RecordAnswer("easy-2", 1, 4); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	if err := s.RecordAnswer("easy-2", 3, 9); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Answers) != 1 {
		t.Fatalf("answers = %d, want 1", len(snap.Answers))
	}
	got := snap.Answers["easy-2"]
	if got.SelectedOptionIndex != 3 || got.TimeSpentSeconds != 9 {
		t.Fatalf("answer = %+v", got)
	}
	if snap.CurrentIndex != 0 {
		t.Fatalf("cursor moved to %d", snap.CurrentIndex)
	}
}

func TestRecordAnswerValidation(t *testing.T) {
	s := newTestSession(t, 2, newManualClock(), nil)

	if err := s.RecordAnswer("nope", 0, 1); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("unknown question: err = %v", err)
	}
	if err := s.RecordAnswer("easy-1", 4, 1); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("option 4: err = %v", err)
	}
	if err := s.RecordAnswer("easy-1", -1, 1); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("option -1: err = %v", err)
	}
	if err := s.RecordAnswer("easy-1", 0, -5); err != nil {
		t.Fatalf("negative elapsed: %v", err)
	}
	if got := s.Snapshot().Answers["easy-1"].TimeSpentSeconds; got != 0 {
		t.Errorf("elapsed = %v, want clamp to 0", got)
	}
}

func TestAnswerCurrentUsesBaseline(t *testing.T) {
	clock := newManualClock()
	s := newTestSession(t, 3, clock, nil)

	clock.Advance(7 * time.Second)
	if _, err := s.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	clock.Advance(12 * time.Second)
	if err := s.AnswerCurrent(2); err != nil {
		t.Fatalf("AnswerCurrent: %v", err)
	}

	got := s.Snapshot().Answers["easy-2"]
	if got.TimeSpentSeconds != 12 || got.SelectedOptionIndex != 2 {
		t.Fatalf("answer = %+v", got)
	}
}

func TestNavigation(t *testing.T) {
	s := newTestSession(t, 3, newManualClock(), nil)

	if err := s.Retreat(); err != nil {
		t.Fatalf("Retreat at 0: %v", err)
	}
	if s.CurrentIndex() != 0 {
		t.Fatalf("retreat at 0 moved cursor")
	}

	if _, err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	if err := s.GoTo(2); err != nil {
		t.Fatalf("GoTo: %v", err)
	}
	if s.Current().ID != "easy-3" {
		t.Fatalf("current = %s", s.Current().ID)
	}
	if err := s.Retreat(); err != nil {
		t.Fatal(err)
	}
	if s.CurrentIndex() != 1 {
		t.Fatalf("index = %d, want 1", s.CurrentIndex())
	}
	if err := s.GoTo(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("GoTo(3): err = %v", err)
	}
}

func TestAdvanceOnLastQuestionCompletes(t *testing.T) {
	clock := newManualClock()
	h := &hookRecorder{}
	s := newTestSession(t, 2, clock, h)

	if done, _ := s.Advance(); done {
		t.Fatal("completed too early")
	}
	clock.Advance(90 * time.Second)
	done, err := s.Advance()
	if err != nil || !done {
		t.Fatalf("Advance on last = (%v, %v)", done, err)
	}

	if h.count() != 1 {
		t.Fatalf("hook calls = %d", h.count())
	}
	if h.reasons[0] != model.CompletionSubmitted {
		t.Errorf("reason = %s", h.reasons[0])
	}
	if h.snap.CompletedAt == nil || h.snap.CompletedAt.Sub(h.snap.StartTime) != 90*time.Second {
		t.Errorf("completedAt = %v", h.snap.CompletedAt)
	}
	if !h.snap.Completed || h.snap.Status != model.SessionStatusCompleted {
		t.Errorf("snapshot not completed: %+v", h.snap)
	}
}

func TestOperationsAfterCompletion(t *testing.T) {
	s := newTestSession(t, 2, newManualClock(), nil)
	if err := s.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := s.RecordAnswer("easy-1", 0, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("RecordAnswer: %v", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Advance: %v", err)
	}
	if err := s.Retreat(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Retreat: %v", err)
	}
	if err := s.GoTo(0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("GoTo: %v", err)
	}
	if err := s.Submit(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Submit: %v", err)
	}
	if len(s.Snapshot().Answers) != 0 {
		t.Errorf("answers changed after completion")
	}
}

func TestForceCompleteIdempotent(t *testing.T) {
	h := &hookRecorder{}
	s := newTestSession(t, 3, newManualClock(), h)

	if !s.ForceComplete() {
		t.Fatal("first ForceComplete returned false")
	}
	if s.ForceComplete() {
		t.Fatal("second ForceComplete returned true")
	}
	if h.count() != 1 {
		t.Fatalf("hook calls = %d, want 1", h.count())
	}
	if h.reasons[0] != model.CompletionExpired {
		t.Fatalf("reason = %s", h.reasons[0])
	}
}

func TestHookMayReadSession(t *testing.T) {
	var s *Session
	var status model.SessionStatus
	s, err := NewSession("s", "e", makeQuestions(model.DifficultyEasy, "Polity", 1), newManualClock(),
		func(model.ExamSession, model.CompletionReason) {
			status = s.Status()
		})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if status != model.SessionStatusCompleted {
		t.Fatalf("status seen by hook = %s", status)
	}
}

func TestAdvanceVersusExpiryRace(t *testing.T) {
	for i := 0; i < 200; i++ {
		h := &hookRecorder{}
		s := newTestSession(t, 1, newManualClock(), h)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Advance()
		}()
		go func() {
			defer wg.Done()
			s.ForceComplete()
		}()
		wg.Wait()

		if h.count() != 1 {
			t.Fatalf("iteration %d: hook calls = %d, want 1", i, h.count())
		}
		if s.Status() != model.SessionStatusCompleted {
			t.Fatalf("iteration %d: status = %s", i, s.Status())
		}
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestSession(t, 2, newManualClock(), nil)
	if err := s.RecordAnswer("easy-1", 1, 2); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	snap.Answers["easy-2"] = model.UserAnswer{QuestionID: "easy-2"}
	snap.Questions[0].ID = "mutated"

	again := s.Snapshot()
	if len(again.Answers) != 1 || again.Questions[0].ID != "easy-1" {
		t.Fatalf("snapshot aliased session state: %+v", again)
	}
}
