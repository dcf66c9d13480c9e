package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/stemsi/smartexam/internal/config"
	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/store"
)

// ExamRepository is the exam catalog: seed exams plus custom ones kept in the store.
type ExamRepository struct {
	mu    sync.Mutex
	store store.Store
	seed  []model.ExamConfig
	newID func() string
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(s store.Store) *ExamRepository {
	return &ExamRepository{
		store: s,
		seed:  SeedExams(),
		newID: func() string { return "custom-" + uuid.New().String() },
	}
}

func (r *ExamRepository) loadCustom(ctx context.Context) ([]model.ExamConfig, error) {
	var custom []model.ExamConfig
	if _, err := r.store.Load(ctx, config.CacheKey.CustomExamsKey(), &custom); err != nil {
		return nil, fmt.Errorf("load custom exams: %w", err)
	}
	return custom, nil
}

// List returns seed exams first, then custom ones.
func (r *ExamRepository) List(ctx context.Context) ([]model.ExamConfig, error) {
	custom, err := r.loadCustom(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.ExamConfig, 0, len(r.seed)+len(custom))
	out = append(out, r.seed...)
	for _, e := range custom {
		e.Custom = true
		out = append(out, e)
	}
	return out, nil
}

// GetByID retrieves an exam config by id.
func (r *ExamRepository) GetByID(ctx context.Context, id string) (*model.ExamConfig, error) {
	exams, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range exams {
		if exams[i].ID == id {
			return &exams[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create validates e and stores it as a custom exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.ExamConfig) error {
	if err := ValidateExam(e); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	custom, err := r.loadCustom(ctx)
	if err != nil {
		return err
	}

	e.ID = r.newID()
	e.Custom = true
	custom = append(custom, *e)

	if err := r.store.Save(ctx, config.CacheKey.CustomExamsKey(), custom); err != nil {
		return fmt.Errorf("save custom exams: %w", err)
	}
	return nil
}

// Delete removes a custom exam.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	for _, e := range r.seed {
		if e.ID == id {
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
	for i, e := range custom {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	custom = append(custom[:idx], custom[idx+1:]...)
	if err := r.store.Save(ctx, config.CacheKey.CustomExamsKey(), custom); err != nil {
		return fmt.Errorf("save custom exams: %w", err)
	}
	return nil
}

// ValidateExam checks the catalog invariants of an exam config.
func ValidateExam(e *model.ExamConfig) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: empty title", ErrInvalidRecord)
	case !e.Difficulty.Valid():
		return fmt.Errorf("%w: difficulty %q", ErrInvalidRecord, e.Difficulty)
	case e.DurationMinutes <= 0:
		return fmt.Errorf("%w: duration %d", ErrInvalidRecord, e.DurationMinutes)
	case e.TotalQuestions <= 0:
		return fmt.Errorf("%w: total questions %d", ErrInvalidRecord, e.TotalQuestions)
	case e.Quota.Easy < 0 || e.Quota.Medium < 0 || e.Quota.Hard < 0:
		return fmt.Errorf("%w: negative quota", ErrInvalidRecord)
	case e.Quota.Total() != e.TotalQuestions:
		return fmt.Errorf("%w: %d != %d", ErrQuotaMismatch, e.Quota.Total(), e.TotalQuestions)
	}
	return nil
}
