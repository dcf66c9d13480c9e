package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/config"
	"github.com/stemsi/smartexam/internal/database"
	"github.com/stemsi/smartexam/internal/handler"
	"github.com/stemsi/smartexam/internal/logger"
	"github.com/stemsi/smartexam/internal/middleware"
	"github.com/stemsi/smartexam/internal/repository"
	"github.com/stemsi/smartexam/internal/router"
	"github.com/stemsi/smartexam/internal/service"
	"github.com/stemsi/smartexam/internal/store"
	"github.com/stemsi/smartexam/internal/validator"
	"github.com/stemsi/smartexam/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SmartExam")

	if cfg.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH is empty, admin pages are disabled")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	snapshots := store.NewRedisStore(rdb)
	examRepo := repository.NewExamRepository(snapshots)
	questionRepo := repository.NewQuestionRepository(snapshots)
	resultRepo := repository.NewExamResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	examService := service.NewExamService(examRepo, questionRepo, log)
	questionService := service.NewQuestionService(questionRepo, log)
	resultService := service.NewResultService(resultRepo, rdb, cfg.RecentResults, log)
	sessionService := service.NewExamSessionService(examRepo, questionRepo, resultService, service.SessionOptions{
		TimerTick:     cfg.TimerTick,
		TimerWarning:  cfg.TimerWarning,
		TimerCritical: cfg.TimerCritical,
		Retention:     cfg.SessionRetention,
	}, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, log),
		Exam:     handler.NewExamHandler(examService, log),
		Question: handler.NewQuestionHandler(questionService, log),
		Session:  handler.NewSessionHandler(sessionService, log),
		Result:   handler.NewResultHandler(resultService, log),
		WS:       handler.NewWSHandler(sessionService, cfg.TimerTick, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	resultWorker := worker.NewResultWorker(resultRepo, rdb, log)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	for _, run := range []func(context.Context){
		resultWorker.Start,
		sessionService.StartJanitor,
		loginLimiter.RunCleanup,
	} {
		workers.Add(1)
		go func(run func(context.Context)) {
			defer workers.Done()
			run(workerCtx)
		}(run)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, loginLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop session timers. Unfinished attempts are not graded.
	sessionService.Shutdown()

	// 3. Stop background workers and wait for the result queue to drain.
	workerCancel()
	drained := make(chan struct{})
	go func() {
		workers.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Workers did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
