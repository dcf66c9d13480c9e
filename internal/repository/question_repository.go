package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/stemsi/smartexam/internal/config"
	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/store"
)

// QuestionRepository serves the seed bank plus custom questions kept in the store.
type QuestionRepository struct {
	mu    sync.Mutex
	store store.Store
	seed  []model.Question
	newID func() string
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(s store.Store) *QuestionRepository {
	return &QuestionRepository{
		store: s,
		seed:  SeedQuestions(),
		newID: func() string { return uuid.New().String() },
	}
}

func (r *QuestionRepository) loadCustom(ctx context.Context) ([]model.Question, error) {
	var custom []model.Question
	if _, err := r.store.Load(ctx, config.CacheKey.CustomQuestionsKey(), &custom); err != nil {
		return nil, fmt.Errorf("load custom questions: %w", err)
	}
	return custom, nil
}

func (r *QuestionRepository) all(ctx context.Context) ([]model.Question, error) {
	custom, err := r.loadCustom(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Question, 0, len(r.seed)+len(custom))
	for _, q := range r.seed {
		out = append(out, cloneQuestion(q))
	}
	for _, q := range custom {
		q.Custom = true
		out = append(out, q)
	}
	return out, nil
}

// List returns seed questions first, then custom ones, narrowed by filter.
func (r *QuestionRepository) List(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error) {
	qs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := qs[:0]
	for _, q := range qs {
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Subject != "" && !strings.EqualFold(q.Subject, filter.Subject) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(q.Text), search) &&
			!strings.Contains(strings.ToLower(q.Subject), search) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// ListByDifficulty returns every question in one tier.
func (r *QuestionRepository) ListByDifficulty(ctx context.Context, d model.Difficulty) ([]model.Question, error) {
	return r.List(ctx, model.QuestionFilter{Difficulty: d})
}

// GetByID retrieves a question by id.
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*model.Question, error) {
	qs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range qs {
		if qs[i].ID == id {
			return &qs[i], nil
		}
	}
	return nil, ErrNotFound
}

// Subjects returns the sorted distinct subjects.
func (r *QuestionRepository) Subjects(ctx context.Context) ([]string, error) {
	qs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	subjects := make([]string, 0)
	for _, q := range qs {
		if _, ok := seen[q.Subject]; ok {
			continue
		}
		seen[q.Subject] = struct{}{}
		subjects = append(subjects, q.Subject)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// Create assigns an id and appends q to the custom questions.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	if err := validateQuestion(q); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	custom, err := r.loadCustom(ctx)
	if err != nil {
		return err
	}

	q.ID = r.newID()
	q.Custom = true
	custom = append(custom, cloneQuestion(*q))

	if err := r.store.Save(ctx, config.CacheKey.CustomQuestionsKey(), custom); err != nil {
		return fmt.Errorf("save custom questions: %w", err)
	}
	return nil
}

// Delete removes a custom question.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	for _, q := range r.seed {
		if q.ID == id {
			return ErrSeedImmutable
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	custom, err := r.loadCustom(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, q := range custom {
		if q.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	custom = append(custom[:idx], custom[idx+1:]...)
	if err := r.store.Save(ctx, config.CacheKey.CustomQuestionsKey(), custom); err != nil {
		return fmt.Errorf("save custom questions: %w", err)
	}
	return nil
}

func validateQuestion(q *model.Question) error {
	switch {
	case strings.TrimSpace(q.Text) == "":
		return fmt.Errorf("%w: empty question text", ErrInvalidRecord)
	case len(q.Options) < model.MinOptions || len(q.Options) > model.MaxOptions:
		return fmt.Errorf("%w: %d options", ErrInvalidRecord, len(q.Options))
	case q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options):
		return fmt.Errorf("%w: answer index %d", ErrInvalidRecord, q.CorrectAnswerIndex)
	case !q.Difficulty.Valid():
		return fmt.Errorf("%w: difficulty %q", ErrInvalidRecord, q.Difficulty)
	case strings.TrimSpace(q.Subject) == "":
		return fmt.Errorf("%w: empty subject", ErrInvalidRecord)
	}
	return nil
}
