package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/stemsi/smartexam/internal/model"
)

// Scorer turns a completed session into an ExamResult.
type Scorer struct {
	newID func() string
}

// NewScorer creates a Scorer. A nil id generator falls back to uuid v4.
func NewScorer(newID func() string) *Scorer {
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	return &Scorer{newID: newID}
}

// Score grades every question of the snapshot; an unanswered question is wrong.
func (s *Scorer) Score(session model.ExamSession, exam model.ExamConfig, reason model.CompletionReason) (*model.ExamResult, error) {
	total := len(session.Questions)
	switch {
	case total == 0:
		return nil, fmt.Errorf("no questions: %w", ErrInvalidSession)
	case !session.Completed || session.CompletedAt == nil:
		return nil, fmt.Errorf("session %s not completed: %w", session.ID, ErrInvalidSession)
	case session.StartTime.IsZero():
		return nil, fmt.Errorf("session %s missing start time: %w", session.ID, ErrInvalidSession)
	case session.ExamConfigID != exam.ID:
		return nil, fmt.Errorf("session %s belongs to exam %s, not %s: %w",
			session.ID, session.ExamConfigID, exam.ID, ErrInvalidSession)
	}

	byLevel := make(map[model.Difficulty]model.LevelPerformance, 3)
	for _, d := range model.Difficulties() {
		byLevel[d] = model.LevelPerformance{}
	}
	bySubject := make(map[string]model.LevelPerformance)

	correct, unanswered := 0, 0
	for _, q := range session.Questions {
		ans, answered := session.Answers[q.ID]
		ok := answered && ans.SelectedOptionIndex == q.CorrectAnswerIndex
		if !answered {
			unanswered++
		}

		lvl := byLevel[q.Difficulty]
		lvl.Total++
		sub := bySubject[q.Subject]
		sub.Total++
		if ok {
			correct++
			lvl.Correct++
			sub.Correct++
		}
		byLevel[q.Difficulty] = lvl
		bySubject[q.Subject] = sub
	}

	spent := session.CompletedAt.Sub(session.StartTime)
	if spent < 0 {
		spent = 0
	}

	reasonOrDefault := reason
	if reasonOrDefault == "" {
		reasonOrDefault = model.CompletionSubmitted
	}

	return &model.ExamResult{
		ID:                   s.newID(),
		SessionID:            session.ID,
		ExamConfigID:         exam.ID,
		ExamTitle:            exam.Title,
		TotalQuestions:       total,
		CorrectAnswers:       correct,
		UnansweredCount:      unanswered,
		Score:                Percent(correct, total),
		TimeSpentMinutes:     spent.Minutes(),
		CompletedAt:          *session.CompletedAt,
		Difficulty:           exam.Difficulty,
		CompletionReason:     reasonOrDefault,
		PerformanceByLevel:   byLevel,
		PerformanceBySubject: bySubject,
	}, nil
}

// Percent is round-half-up(part/whole*100) in integer arithmetic. whole must be positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}
