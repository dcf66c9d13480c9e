package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/config"
	"github.com/stemsi/smartexam/internal/model"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
	// ResultDrainLimit bounds the shutdown drain so a flood cannot stall exit.
	ResultDrainLimit = 1000
)

var errMalformedResult = errors.New("malformed result record")

// ResultWriter is the history table the worker drains into.
type ResultWriter interface {
	CopyBatch(ctx context.Context, results []model.ExamResult) (int64, error)
	Insert(ctx context.Context, res *model.ExamResult) error
}

// ResultWorker consumes persist_results_queue and appends results to PostgreSQL.
type ResultWorker struct {
	repo ResultWriter
	rdb  redis.Cmdable
	log  zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(repo ResultWriter, rdb redis.Cmdable, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "result_worker").Logger(),
	}
}

// queuedResult keeps the raw record so a failed write can be requeued verbatim.
type queuedResult struct {
	raw    string
	result model.ExamResult
}

func parseResult(raw string) (model.ExamResult, error) {
	var res model.ExamResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return res, fmt.Errorf("%w: %v", errMalformedResult, err)
	}
	if res.ID == "" || res.SessionID == "" {
		return res, fmt.Errorf("%w: missing id", errMalformedResult)
	}
	return res, nil
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then flushes and drains. Call in a goroutine.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]queuedResult, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			w.drain(context.Background())
			w.log.Info().Msg("ResultWorker stopped")
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			if q, ok := w.accept(ctx, item[1]); ok {
				batch = append(batch, q)
			}
		}
	}
}

// accept parses one record; unreadable records go to the dead-letter queue.
func (w *ResultWorker) accept(ctx context.Context, raw string) (queuedResult, bool) {
	res, err := parseResult(raw)
	if err != nil {
		w.log.Error().Err(err).Msg("Invalid result payload, moved to dead queue")
		if err := w.rdb.RPush(ctx, config.WorkerKey.DeadResultsQueue, raw).Err(); err != nil {
			w.log.Error().Err(err).Msg("Dead queue push failed")
		}
		return queuedResult{}, false
	}
	return queuedResult{raw: raw, result: res}, true
}

// ----------------------------------------------------------------
// Batch COPY with row-by-row fallback
// ----------------------------------------------------------------

func (w *ResultWorker) flushSafe(ctx context.Context, batch []queuedResult) {
	failed := w.persist(ctx, batch)
	if len(failed) == 0 {
		return
	}

	for _, q := range failed {
		if err := w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, q.raw).Err(); err != nil {
			w.log.Error().Err(err).Str("result_id", q.result.ID).Msg("Requeue failed, result dropped from queue")
		}
	}
	w.log.Warn().Int("count", len(failed)).Msg("Results requeued")
}

// persist writes batch and returns the records that could not be stored.
func (w *ResultWorker) persist(ctx context.Context, batch []queuedResult) []queuedResult {
	if len(batch) == 0 {
		return nil
	}

	results := make([]model.ExamResult, len(batch))
	for i, q := range batch {
		results[i] = q.result
	}

	n, err := w.repo.CopyBatch(ctx, results)
	if err == nil {
		w.log.Debug().Int64("rows", n).Msg("Result batch stored")
		return nil
	}

	// COPY is all-or-nothing; a single duplicate session rejects the whole batch.
	w.log.Warn().Err(err).Int("batch", len(batch)).Msg("bulk copy failed, using fallback")

	var failed []queuedResult
	for _, q := range batch {
		res := q.result
		if err := w.repo.Insert(ctx, &res); err != nil {
			w.log.Error().Err(err).Str("result_id", res.ID).Msg("Insert failed, requeueing")
			failed = append(failed, q)
		}
	}
	return failed
}

// drain stores what is left in the queue before shutdown.
func (w *ResultWorker) drain(ctx context.Context) {
	drained := 0
	for drained < ResultDrainLimit {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.PersistResultsQueue).Result()
		if err != nil {
			break
		}

		q, ok := w.accept(ctx, raw)
		if !ok {
			continue
		}
		if failed := w.persist(ctx, []queuedResult{q}); len(failed) > 0 {
			w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining results")
	}
}
