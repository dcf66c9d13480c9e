package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/config"
	"github.com/stemsi/smartexam/internal/engine"
	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/repository"
)

const (
	StrongSubjectPercent = 70
	WeakSubjectPercent   = 50
)

// ResultService is the result sink and the read side of the history.
// Writes go through the Redis queue; worker.ResultWorker moves them to PostgreSQL.
type ResultService struct {
	repo        *repository.ExamResultRepository
	rdb         *redis.Client
	recentLimit int
	log         zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(repo *repository.ExamResultRepository, rdb *redis.Client, recentLimit int, log zerolog.Logger) *ResultService {
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &ResultService{
		repo:        repo,
		rdb:         rdb,
		recentLimit: recentLimit,
		log:         log.With().Str("component", "result_service").Logger(),
	}
}

// PersistResult enqueues a result for the history. It never rewrites a stored result.
func (s *ResultService) PersistResult(ctx context.Context, res *model.ExamResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("%w: marshal result: %v", engine.ErrPersistenceFailure, err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err(); err != nil {
		return fmt.Errorf("%w: enqueue result: %v", engine.ErrPersistenceFailure, err)
	}

	s.log.Debug().Str("result_id", res.ID).Msg("Result queued")
	return nil
}

// ListRecent returns up to limit results, newest first.
func (s *ResultService) ListRecent(ctx context.Context, limit int) ([]model.ExamResult, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	results, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// Progress aggregates the whole history for the dashboard.
func (s *ResultService) Progress(ctx context.Context) (*model.UserProgress, error) {
	results, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	p := BuildProgress(results, s.recentLimit)
	return &p, nil
}

// BuildProgress summarises results. Subjects at or above StrongSubjectPercent
// accuracy are strong, those below WeakSubjectPercent are weak.
func BuildProgress(results []model.ExamResult, recent int) model.UserProgress {
	sorted := make([]model.ExamResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	p := model.UserProgress{
		TotalExamsTaken: len(sorted),
		StrongSubjects:  []string{},
		WeakSubjects:    []string{},
		RecentResults:   []model.ExamResult{},
	}
	if len(sorted) == 0 {
		return p
	}

	sum := 0
	subjects := make(map[string]model.LevelPerformance)
	for _, r := range sorted {
		sum += r.Score
		for name, perf := range r.PerformanceBySubject {
			acc := subjects[name]
			acc.Correct += perf.Correct
			acc.Total += perf.Total
			subjects[name] = acc
		}
	}
	p.AverageScore = (2*sum + len(sorted)) / (2 * len(sorted))

	for name, perf := range subjects {
		if perf.Total == 0 {
			continue
		}
		switch pct := engine.Percent(perf.Correct, perf.Total); {
		case pct >= StrongSubjectPercent:
			p.StrongSubjects = append(p.StrongSubjects, name)
		case pct < WeakSubjectPercent:
			p.WeakSubjects = append(p.WeakSubjects, name)
		}
	}
	sort.Strings(p.StrongSubjects)
	sort.Strings(p.WeakSubjects)

	if recent > len(sorted) || recent <= 0 {
		recent = len(sorted)
	}
	p.RecentResults = sorted[:recent]
	return p
}
