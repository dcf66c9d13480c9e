package engine

import (
	"context"
	"fmt"

	"github.com/stemsi/smartexam/internal/model"
)

// QuestionSource is the read side of the question repository the selector needs.
type QuestionSource interface {
	ListByDifficulty(ctx context.Context, d model.Difficulty) ([]model.Question, error)
}

// Selector draws the question set for one attempt.
type Selector struct {
	shuffler Shuffler
}

// NewSelector creates a Selector. A nil shuffler falls back to RandomShuffler.
func NewSelector(shuffler Shuffler) *Selector {
	if shuffler == nil {
		shuffler = RandomShuffler{}
	}
	return &Selector{shuffler: shuffler}
}

// Select takes quota[tier] questions from a fresh permutation of every tier's
// pool and interleaves the tiers with one more permutation over the whole set.
// Nothing is returned unless every quota can be met.
func (s *Selector) Select(ctx context.Context, cfg model.ExamConfig, src QuestionSource) ([]model.Question, error) {
	pools := make(map[model.Difficulty][]model.Question, 3)

	// Check every tier before drawing so a shortfall never yields a partial set.
	for _, tier := range model.Difficulties() {
		want := cfg.Quota.For(tier)
		if want < 0 {
			return nil, fmt.Errorf("negative %s quota: %w", tier, ErrInvalidSession)
		}
		if want == 0 {
			continue
		}

		pool, err := src.ListByDifficulty(ctx, tier)
		if err != nil {
			return nil, fmt.Errorf("load %s questions: %w", tier, err)
		}
		if len(pool) < want {
			return nil, &InsufficientQuestionsError{
				Difficulty: tier,
				Required:   want,
				Available:  len(pool),
			}
		}
		pools[tier] = pool
	}

	selected := make([]model.Question, 0, cfg.Quota.Total())
	for _, tier := range model.Difficulties() {
		pool, ok := pools[tier]
		if !ok {
			continue
		}
		selected = append(selected, s.permute(pool)[:cfg.Quota.For(tier)]...)
	}

	return s.permute(selected), nil
}

// permute returns a shuffled copy; the input is left untouched.
func (s *Selector) permute(in []model.Question) []model.Question {
	out := make([]model.Question, len(in))
	copy(out, in)
	s.shuffler.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
