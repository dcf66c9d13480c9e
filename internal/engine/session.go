package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/stemsi/smartexam/internal/model"
)

// CompletionHook receives the frozen session once it reaches Completed.
type CompletionHook func(snapshot model.ExamSession, reason model.CompletionReason)

// Session owns the lifecycle of one attempt.
//
// All mutation happens under mu and only while the status is IN_PROGRESS.
// Completion is a single guarded transition, so whichever trigger (last-question
// advance, submit, timer expiry) arrives first wins and the rest are dropped.
type Session struct {
	mu sync.Mutex

	id           string
	examConfigID string
	questions    []model.Question
	index        map[string]int
	clock        Clock
	onComplete   CompletionHook

	status       model.SessionStatus
	startTime    time.Time
	completedAt  time.Time
	answers      map[string]model.UserAnswer
	currentIndex int
	baseline     time.Time
}

// NewSession builds a session for the selected questions and moves it straight
// from INITIALIZING to IN_PROGRESS.
func NewSession(id, examConfigID string, questions []model.Question, clock Clock, onComplete CompletionHook) (*Session, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions selected: %w", ErrInvalidSession)
	}
	if clock == nil {
		clock = SystemClock{}
	}

	qs := make([]model.Question, len(questions))
	copy(qs, questions)

	index := make(map[string]int, len(qs))
	for i, q := range qs {
		index[q.ID] = i
	}

	s := &Session{
		id:           id,
		examConfigID: examConfigID,
		questions:    qs,
		index:        index,
		clock:        clock,
		onComplete:   onComplete,
		status:       model.SessionStatusInitializing,
	}
	s.begin()
	return s, nil
}

func (s *Session) begin() {
	now := s.clock.Now()
	s.status = model.SessionStatusInProgress
	s.startTime = now
	s.baseline = now
	s.currentIndex = 0
	s.answers = make(map[string]model.UserAnswer)
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// ExamConfigID returns the exam this session was drawn for.
func (s *Session) ExamConfigID() string { return s.examConfigID }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// StartTime returns when the session entered IN_PROGRESS.
func (s *Session) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// Status returns the current lifecycle state.
func (s *Session) Status() model.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentIndex returns the cursor position.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// Current returns the question under the cursor.
func (s *Session) Current() model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions[s.currentIndex]
}

// ElapsedOnCurrent is the time since the current question was shown.
func (s *Session) ElapsedOnCurrent() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedLocked()
}

func (s *Session) elapsedLocked() time.Duration {
	d := s.clock.Now().Sub(s.baseline)
	if d < 0 {
		return 0
	}
	return d
}

// RecordAnswer upserts the answer for questionID. The cursor does not move.
func (s *Session) RecordAnswer(questionID string, selectedOptionIndex int, elapsedSeconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.SessionStatusInProgress {
		return ErrInvalidState
	}
	return s.recordLocked(questionID, selectedOptionIndex, elapsedSeconds)
}

// AnswerCurrent records an answer for the question under the cursor, timed
// from the moment it was shown.
func (s *Session) AnswerCurrent(selectedOptionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.SessionStatusInProgress {
		return ErrInvalidState
	}
	q := s.questions[s.currentIndex]
	return s.recordLocked(q.ID, selectedOptionIndex, s.elapsedLocked().Seconds())
}

func (s *Session) recordLocked(questionID string, selected int, elapsed float64) error {
	i, ok := s.index[questionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if selected < 0 || selected >= len(s.questions[i].Options) {
		return fmt.Errorf("%w: %d", ErrInvalidOption, selected)
	}
	if elapsed < 0 {
		elapsed = 0
	}

	s.answers[questionID] = model.UserAnswer{
		QuestionID:          questionID,
		SelectedOptionIndex: selected,
		TimeSpentSeconds:    elapsed,
	}
	return nil
}

// Advance moves to the next question. On the last question it completes the
// session instead and reports completed=true.
func (s *Session) Advance() (completed bool, err error) {
	s.mu.Lock()
	if s.status != model.SessionStatusInProgress {
		s.mu.Unlock()
		return false, ErrInvalidState
	}

	if s.currentIndex < len(s.questions)-1 {
		s.currentIndex++
		s.baseline = s.clock.Now()
		s.mu.Unlock()
		return false, nil
	}

	snap := s.completeLocked()
	s.mu.Unlock()

	s.fire(snap, model.CompletionSubmitted)
	return true, nil
}

// Retreat moves to the previous question; at the first question it only
// resets the timing baseline.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.SessionStatusInProgress {
		return ErrInvalidState
	}
	if s.currentIndex > 0 {
		s.currentIndex--
	}
	s.baseline = s.clock.Now()
	return nil
}

// GoTo jumps straight to index.
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != model.SessionStatusInProgress {
		return ErrInvalidState
	}
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.currentIndex = index
	s.baseline = s.clock.Now()
	return nil
}

// Submit finishes the attempt from any question.
func (s *Session) Submit() error {
	s.mu.Lock()
	if s.status != model.SessionStatusInProgress {
		s.mu.Unlock()
		return ErrInvalidState
	}
	snap := s.completeLocked()
	s.mu.Unlock()

	s.fire(snap, model.CompletionSubmitted)
	return nil
}

// ForceComplete ends the attempt wherever the cursor is. It reports whether
// this call performed the transition; later calls are no-ops.
func (s *Session) ForceComplete() bool {
	s.mu.Lock()
	if s.status != model.SessionStatusInProgress {
		s.mu.Unlock()
		return false
	}
	snap := s.completeLocked()
	s.mu.Unlock()

	s.fire(snap, model.CompletionExpired)
	return true
}

func (s *Session) completeLocked() model.ExamSession {
	s.status = model.SessionStatusCompleted
	s.completedAt = s.clock.Now()
	if s.completedAt.Before(s.startTime) {
		s.completedAt = s.startTime
	}
	return s.snapshotLocked()
}

// fire runs outside the lock so the hook may read the session.
func (s *Session) fire(snap model.ExamSession, reason model.CompletionReason) {
	if s.onComplete != nil {
		s.onComplete(snap, reason)
	}
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() model.ExamSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() model.ExamSession {
	qs := make([]model.Question, len(s.questions))
	copy(qs, s.questions)

	answers := make(map[string]model.UserAnswer, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	snap := model.ExamSession{
		ID:           s.id,
		ExamConfigID: s.examConfigID,
		Questions:    qs,
		StartTime:    s.startTime,
		Answers:      answers,
		CurrentIndex: s.currentIndex,
		Completed:    s.status == model.SessionStatusCompleted,
		Status:       s.status,
	}
	if snap.Completed {
		at := s.completedAt
		snap.CompletedAt = &at
	}
	return snap
}
