package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/smartexam/internal/model"
)

// ExamResultRepository is the append-only result history in PostgreSQL.
type ExamResultRepository struct {
	pool *pgxpool.Pool
}

// NewExamResultRepository creates a new ExamResultRepository.
func NewExamResultRepository(pool *pgxpool.Pool) *ExamResultRepository {
	return &ExamResultRepository{pool: pool}
}

var resultColumns = []string{
	"id", "session_id", "exam_config_id", "exam_title", "total_questions",
	"correct_answers", "unanswered_count", "score", "time_spent_minutes",
	"completed_at", "difficulty", "completion_reason",
	"performance_by_level", "performance_by_subject",
}

// CopyBatch bulk-loads results with COPY. Any bad row fails the whole batch.
func (r *ExamResultRepository) CopyBatch(ctx context.Context, results []model.ExamResult) (int64, error) {
	rows := make([][]any, 0, len(results))
	for i := range results {
		row, err := resultRow(&results[i])
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	return r.pool.CopyFrom(ctx, pgx.Identifier{"exam_results"}, resultColumns, pgx.CopyFromRows(rows))
}

// Insert writes one result. Replays of an already stored result are ignored.
func (r *ExamResultRepository) Insert(ctx context.Context, res *model.ExamResult) error {
	row, err := resultRow(res)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO exam_results (id, session_id, exam_config_id, exam_title, total_questions,
		     correct_answers, unanswered_count, score, time_spent_minutes,
		     completed_at, difficulty, completion_reason,
		     performance_by_level, performance_by_subject)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::jsonb, $14::jsonb)
		 ON CONFLICT DO NOTHING`,
		row...,
	)
	return err
}

// ListRecent returns up to limit results, newest first. limit <= 0 means all.
func (r *ExamResultRepository) ListRecent(ctx context.Context, limit int) ([]model.ExamResult, error) {
	query := `SELECT id, session_id, exam_config_id, exam_title, total_questions,
	                 correct_answers, unanswered_count, score, time_spent_minutes,
	                 completed_at, difficulty, completion_reason,
	                 performance_by_level, performance_by_subject
	          FROM exam_results
	          ORDER BY completed_at DESC, recorded_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]model.ExamResult, 0)
	for rows.Next() {
		var (
			res                model.ExamResult
			id                 uuid.UUID
			difficulty, reason string
			byLevel, bySubject []byte
		)
		if err := rows.Scan(&id, &res.SessionID, &res.ExamConfigID, &res.ExamTitle, &res.TotalQuestions,
			&res.CorrectAnswers, &res.UnansweredCount, &res.Score, &res.TimeSpentMinutes,
			&res.CompletedAt, &difficulty, &reason, &byLevel, &bySubject); err != nil {
			return nil, err
		}

		res.ID = id.String()
		res.Difficulty = model.Difficulty(difficulty)
		res.CompletionReason = model.CompletionReason(reason)
		if err := json.Unmarshal(byLevel, &res.PerformanceByLevel); err != nil {
			return nil, fmt.Errorf("decode performance_by_level: %w", err)
		}
		if err := json.Unmarshal(bySubject, &res.PerformanceBySubject); err != nil {
			return nil, fmt.Errorf("decode performance_by_subject: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// ListAll returns the full history, newest first.
func (r *ExamResultRepository) ListAll(ctx context.Context) ([]model.ExamResult, error) {
	return r.ListRecent(ctx, 0)
}

func resultRow(res *model.ExamResult) ([]any, error) {
	id, err := uuid.Parse(res.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: result id %q", ErrInvalidRecord, res.ID)
	}
	byLevel, err := json.Marshal(res.PerformanceByLevel)
	if err != nil {
		return nil, fmt.Errorf("encode performance_by_level: %w", err)
	}
	bySubject, err := json.Marshal(res.PerformanceBySubject)
	if err != nil {
		return nil, fmt.Errorf("encode performance_by_subject: %w", err)
	}

	return []any{
		id, res.SessionID, res.ExamConfigID, res.ExamTitle, res.TotalQuestions,
		res.CorrectAnswers, res.UnansweredCount, res.Score, res.TimeSpentMinutes,
		res.CompletedAt, string(res.Difficulty), string(res.CompletionReason),
		byLevel, bySubject,
	}, nil
}
