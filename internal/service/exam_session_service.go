package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/engine"
	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/repository"
)

var (
	ErrSessionNotFound     = errors.New("exam session not found")
	ErrSessionNotCompleted = errors.New("exam session is still in progress")
	ErrExamNotFound        = errors.New("exam not found")
)

// ResultSink receives every scored result exactly once.
type ResultSink interface {
	PersistResult(ctx context.Context, result *model.ExamResult) error
}

// SessionOptions tunes ExamSessionService. Zero values take defaults.
type SessionOptions struct {
	Clock    engine.Clock
	Shuffler engine.Shuffler
	NewID    func() string

	TimerTick      time.Duration
	TimerWarning   time.Duration
	TimerCritical  time.Duration
	Retention      time.Duration
	PersistTimeout time.Duration

	// ManualTimers leaves timer ticking to the caller instead of a goroutine per attempt.
	ManualTimers bool
}

// attempt is one registered session with its timer and outcome.
type attempt struct {
	session *engine.Session
	timer   *engine.Timer
	exam    model.ExamConfig
	cancel  context.CancelFunc
	done    chan struct{}

	mu          sync.Mutex
	result      *model.ExamResult
	scoreErr    error
	persistErr  error
	completedAt time.Time
}

func (a *attempt) outcome() (*model.ExamResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result, a.scoreErr
}

// ExamSessionService runs attempts from question selection to the stored result.
type ExamSessionService struct {
	exams     *repository.ExamRepository
	questions *repository.QuestionRepository
	selector  *engine.Selector
	scorer    *engine.Scorer
	sink      ResultSink
	opts      SessionOptions
	log       zerolog.Logger

	mu       sync.RWMutex
	attempts map[string]*attempt
}

// NewExamSessionService creates a new ExamSessionService.
func NewExamSessionService(
	exams *repository.ExamRepository,
	questions *repository.QuestionRepository,
	sink ResultSink,
	opts SessionOptions,
	log zerolog.Logger,
) *ExamSessionService {
	if opts.Clock == nil {
		opts.Clock = engine.SystemClock{}
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Retention <= 0 {
		opts.Retention = 30 * time.Minute
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = 5 * time.Second
	}

	return &ExamSessionService{
		exams:     exams,
		questions: questions,
		selector:  engine.NewSelector(opts.Shuffler),
		scorer:    engine.NewScorer(nil),
		sink:      sink,
		opts:      opts,
		log:       log.With().Str("component", "exam_session_service").Logger(),
		attempts:  make(map[string]*attempt),
	}
}

// Start draws the questions for examID and begins a timed attempt.
// Nothing is registered when the question pools cannot meet the quota.
func (s *ExamSessionService) Start(ctx context.Context, examID string) (*model.SessionState, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	questions, err := s.selector.Select(ctx, *exam, s.questions)
	if err != nil {
		return nil, err
	}

	att := &attempt{exam: *exam, done: make(chan struct{})}
	id := s.opts.NewID()

	session, err := engine.NewSession(id, exam.ID, questions, s.opts.Clock,
		func(snap model.ExamSession, reason model.CompletionReason) {
			s.complete(att, snap, reason)
		})
	if err != nil {
		return nil, err
	}
	att.session = session

	att.timer = engine.NewTimer(s.opts.Clock, time.Duration(exam.DurationMinutes)*time.Minute, engine.TimerOptions{
		Tick:     s.opts.TimerTick,
		Warning:  s.opts.TimerWarning,
		Critical: s.opts.TimerCritical,
		OnExpire: func() {
			if session.ForceComplete() {
				s.log.Info().Str("session_id", id).Msg("Time expired, session auto-submitted")
			}
		},
	})

	var timerCtx context.Context
	if !s.opts.ManualTimers {
		// The timer outlives the request that started it.
		timerCtx, att.cancel = context.WithCancel(context.Background())
	}

	s.mu.Lock()
	s.attempts[id] = att
	s.mu.Unlock()

	if timerCtx != nil {
		go att.timer.Run(timerCtx)
	}

	s.log.Info().
		Str("session_id", id).
		Str("exam_id", exam.ID).
		Int("questions", len(questions)).
		Int("duration_minutes", exam.DurationMinutes).
		Msg("Exam session started")

	return s.state(att), nil
}

// complete runs once per attempt, from whichever goroutine won the completion.
func (s *ExamSessionService) complete(att *attempt, snap model.ExamSession, reason model.CompletionReason) {
	defer close(att.done)

	att.timer.Stop()
	if att.cancel != nil {
		att.cancel()
	}

	res, err := s.scorer.Score(snap, att.exam, reason)

	att.mu.Lock()
	if snap.CompletedAt != nil {
		att.completedAt = *snap.CompletedAt
	}
	if err != nil {
		att.scoreErr = err
		att.mu.Unlock()
		s.log.Error().Err(err).Str("session_id", snap.ID).Msg("Scoring failed")
		return
	}
	att.result = res
	att.mu.Unlock()

	s.log.Info().
		Str("session_id", snap.ID).
		Str("result_id", res.ID).
		Int("score", res.Score).
		Str("reason", string(reason)).
		Msg("Exam session graded")

	if s.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.PersistTimeout)
	defer cancel()

	if err := s.sink.PersistResult(ctx, res); err != nil {
		perr := fmt.Errorf("%w: %v", engine.ErrPersistenceFailure, err)
		att.mu.Lock()
		att.persistErr = perr
		att.mu.Unlock()
		s.log.Error().Err(err).Str("result_id", res.ID).Msg("Result persistence failed, result kept in memory")
	}
}

func (s *ExamSessionService) get(id string) (*attempt, error) {
	s.mu.RLock()
	att, ok := s.attempts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return att, nil
}

// State returns what the candidate should see right now.
func (s *ExamSessionService) State(id string) (*model.SessionState, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return s.state(att), nil
}

func (s *ExamSessionService) state(att *attempt) *model.SessionState {
	snap := att.session.Snapshot()
	reading := att.timer.Reading()

	answered := make([]bool, len(snap.Questions))
	for i, q := range snap.Questions {
		_, answered[i] = snap.Answers[q.ID]
	}

	st := &model.SessionState{
		SessionID:        snap.ID,
		ExamConfigID:     snap.ExamConfigID,
		ExamTitle:        att.exam.Title,
		Status:           snap.Status,
		CurrentIndex:     snap.CurrentIndex,
		TotalQuestions:   len(snap.Questions),
		AnsweredCount:    len(snap.Answers),
		Answered:         answered,
		StartTime:        snap.StartTime,
		RemainingSeconds: reading.Remaining.Seconds(),
		TimerLevel:       reading.Level,
	}

	if snap.Completed {
		st.RemainingSeconds = 0
		return st
	}

	cur := snap.Questions[snap.CurrentIndex]
	view := cur.ForCandidate()
	st.CurrentQuestion = &view
	if ans, ok := snap.Answers[cur.ID]; ok {
		sel := ans.SelectedOptionIndex
		st.SelectedOption = &sel
	}
	return st
}

// RecordAnswer stores an answer. Without an explicit time the elapsed time
// on the current question is used.
func (s *ExamSessionService) RecordAnswer(id string, req model.RecordAnswerRequest) (*model.SessionState, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if req.SelectedOptionIndex == nil {
		return nil, engine.ErrInvalidOption
	}

	elapsed := att.session.ElapsedOnCurrent().Seconds()
	if req.TimeSpentSeconds != nil {
		elapsed = *req.TimeSpentSeconds
	}

	if err := att.session.RecordAnswer(req.QuestionID, *req.SelectedOptionIndex, elapsed); err != nil {
		return nil, err
	}
	return s.state(att), nil
}

// Advance moves forward; on the last question it completes and grades the attempt.
func (s *ExamSessionService) Advance(id string) (*model.SessionState, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if _, err := att.session.Advance(); err != nil {
		return nil, err
	}
	return s.state(att), nil
}

// Retreat moves back one question.
func (s *ExamSessionService) Retreat(id string) (*model.SessionState, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := att.session.Retreat(); err != nil {
		return nil, err
	}
	return s.state(att), nil
}

// GoTo jumps to a question from the navigation grid.
func (s *ExamSessionService) GoTo(id string, index int) (*model.SessionState, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := att.session.GoTo(index); err != nil {
		return nil, err
	}
	return s.state(att), nil
}

// Submit finishes the attempt and returns the graded result.
func (s *ExamSessionService) Submit(ctx context.Context, id string) (*model.ExamResult, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := att.session.Submit(); err != nil {
		return nil, err
	}
	return s.await(ctx, att)
}

func (s *ExamSessionService) await(ctx context.Context, att *attempt) (*model.ExamResult, error) {
	select {
	case <-att.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return att.outcome()
}

// Result returns the graded result of a completed attempt.
func (s *ExamSessionService) Result(ctx context.Context, id string) (*model.ExamResult, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if att.session.Status() != model.SessionStatusCompleted {
		return nil, ErrSessionNotCompleted
	}
	return s.await(ctx, att)
}

// PersistError reports whether handing the result to the sink failed.
func (s *ExamSessionService) PersistError(id string) error {
	att, err := s.get(id)
	if err != nil {
		return err
	}
	att.mu.Lock()
	defer att.mu.Unlock()
	return att.persistErr
}

// Review pairs every question with the candidate's answer after completion.
func (s *ExamSessionService) Review(id string) ([]model.ReviewItem, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}

	snap := att.session.Snapshot()
	if !snap.Completed {
		return nil, ErrSessionNotCompleted
	}

	items := make([]model.ReviewItem, 0, len(snap.Questions))
	for _, q := range snap.Questions {
		item := model.ReviewItem{Question: q}
		if ans, ok := snap.Answers[q.ID]; ok {
			sel := ans.SelectedOptionIndex
			item.SelectedOption = &sel
			item.IsCorrect = sel == q.CorrectAnswerIndex
			item.TimeSpent = ans.TimeSpentSeconds
		}
		items = append(items, item)
	}
	return items, nil
}

// Done is closed once the attempt has been graded.
func (s *ExamSessionService) Done(id string) (<-chan struct{}, error) {
	att, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return att.done, nil
}

// Abandon drops an attempt without grading it. A completion that already
// happened stays recorded with the sink.
func (s *ExamSessionService) Abandon(id string) error {
	s.mu.Lock()
	att, ok := s.attempts[id]
	delete(s.attempts, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	att.timer.Stop()
	if att.cancel != nil {
		att.cancel()
	}

	s.log.Info().Str("session_id", id).Msg("Exam session abandoned")
	return nil
}

// Sweep forgets completed attempts older than the retention window and
// in-progress attempts whose deadline passed more than one window ago.
func (s *ExamSessionService) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, att := range s.attempts {
		var cutoff time.Time
		if att.session.Status() == model.SessionStatusCompleted {
			att.mu.Lock()
			cutoff = att.completedAt
			att.mu.Unlock()
		} else {
			cutoff = att.timer.Deadline()
		}
		if cutoff.IsZero() || now.Sub(cutoff) <= s.opts.Retention {
			continue
		}

		att.timer.Stop()
		if att.cancel != nil {
			att.cancel()
		}
		delete(s.attempts, id)
		removed++
	}

	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("Swept stale exam sessions")
	}
	return removed
}

// StartJanitor sweeps once per minute until ctx is cancelled.
func (s *ExamSessionService) StartJanitor(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.opts.Clock.Now())
		}
	}
}

// Shutdown stops every running timer. In-progress attempts are not graded.
func (s *ExamSessionService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, att := range s.attempts {
		att.timer.Stop()
		if att.cancel != nil {
			att.cancel()
		}
	}
}
