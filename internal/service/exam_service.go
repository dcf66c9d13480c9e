package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/repository"
)

// ExamSummary is a catalog entry with whether its quota can be met right now.
type ExamSummary struct {
	model.ExamConfig
	Playable bool `json:"playable"`
}

// ExamService handles the exam catalog.
type ExamService struct {
	exams     *repository.ExamRepository
	questions *repository.QuestionRepository
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(exams *repository.ExamRepository, questions *repository.QuestionRepository, log zerolog.Logger) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// List returns every exam with its playability.
func (s *ExamService) List(ctx context.Context) ([]ExamSummary, error) {
	exams, err := s.exams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	pools := make(map[model.Difficulty]int, 3)
	for _, d := range model.Difficulties() {
		qs, err := s.questions.ListByDifficulty(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("count %s questions: %w", d, err)
		}
		pools[d] = len(qs)
	}

	out := make([]ExamSummary, 0, len(exams))
	for _, e := range exams {
		playable := true
		for _, d := range model.Difficulties() {
			if e.Quota.For(d) > pools[d] {
				playable = false
			}
		}
		out = append(out, ExamSummary{ExamConfig: e, Playable: playable})
	}
	return out, nil
}

// Get returns one exam config.
func (s *ExamService) Get(ctx context.Context, id string) (*model.ExamConfig, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrExamNotFound
	}
	return exam, err
}

// Create adds a custom exam.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest) (*model.ExamConfig, error) {
	exam := &model.ExamConfig{
		Title:           req.Title,
		Description:     req.Description,
		Difficulty:      model.Difficulty(req.Difficulty),
		DurationMinutes: req.DurationMinutes,
		TotalQuestions:  req.TotalQuestions,
		Quota:           req.Quota,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, err
	}

	s.log.Info().Str("exam_id", exam.ID).Str("title", exam.Title).Msg("Custom exam created")
	return exam, nil
}

// Delete removes a custom exam.
func (s *ExamService) Delete(ctx context.Context, id string) error {
	if err := s.exams.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExamNotFound
		}
		return err
	}

	s.log.Info().Str("exam_id", id).Msg("Custom exam deleted")
	return nil
}
