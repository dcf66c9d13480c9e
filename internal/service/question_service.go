package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/repository"
)

var ErrQuestionNotFound = errors.New("question not found")

// QuestionService handles the question bank.
type QuestionService struct {
	questions *repository.QuestionRepository
	log       zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questions *repository.QuestionRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questions: questions,
		log:       log.With().Str("component", "question_service").Logger(),
	}
}

func (s *QuestionService) List(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error) {
	return s.questions.List(ctx, filter)
}

func (s *QuestionService) Get(ctx context.Context, id string) (*model.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionService) Subjects(ctx context.Context) ([]string, error) {
	return s.questions.Subjects(ctx)
}

// Create adds a custom question.
func (s *QuestionService) Create(ctx context.Context, req *model.AddQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		Text:        req.Text,
		Options:     req.Options,
		Difficulty:  model.Difficulty(req.Difficulty),
		Subject:     req.Subject,
		Explanation: req.Explanation,
	}
	if req.CorrectAnswerIndex != nil {
		q.CorrectAnswerIndex = *req.CorrectAnswerIndex
	}

	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}

	s.log.Info().Str("question_id", q.ID).Str("difficulty", string(q.Difficulty)).Msg("Custom question added")
	return q, nil
}

// Delete removes a custom question.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	s.log.Info().Str("question_id", id).Msg("Custom question deleted")
	return nil
}
