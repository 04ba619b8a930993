package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aulavia/examenes-backend/internal/config"
	"github.com/aulavia/examenes-backend/internal/database"
	"github.com/aulavia/examenes-backend/internal/handler"
	"github.com/aulavia/examenes-backend/internal/logger"
	"github.com/aulavia/examenes-backend/internal/middleware"
	"github.com/aulavia/examenes-backend/internal/repository"
	"github.com/aulavia/examenes-backend/internal/router"
	"github.com/aulavia/examenes-backend/internal/service"
	"github.com/aulavia/examenes-backend/internal/validator"
	"github.com/aulavia/examenes-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Dur("exam_duration", cfg.ExamDuration).
		Int("questions_per_attempt", cfg.QuestionsPerAttempt).
		Msg("Starting Examenes Backend")

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

	store := database.NewStore(pool)

	// ─── Initialize Repositories ───────────────────────────────────────
	tokenRepo := repository.NewTokenRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	assignedRepo := repository.NewAssignedQuestionRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	instructorRepo := repository.NewInstructorRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	// Refuse to start with a bank smaller than one attempt's sequence.
	if count, err := questionRepo.CountActive(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to count question bank")
	} else if count < cfg.QuestionsPerAttempt {
		log.Warn().
			Int("active_questions", count).
			Int("required", cfg.QuestionsPerAttempt).
			Msg("Question bank smaller than questions per attempt; starts will fail")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	grader := service.NewScoreGrader(answerRepo, attemptRepo, cfg.PassingScore, log)
	examService := service.NewExamService(store, tokenRepo, attemptRepo, assignedRepo, answerRepo, grader, cfg, log)
	tokenService := service.NewTokenService(tokenRepo, log)
	authService := service.NewAuthService(cfg, instructorRepo, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Exam:       handler.NewExamHandler(examService),
		Auth:       handler.NewAuthHandler(authService),
		Instructor: handler.NewInstructorHandler(tokenService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	expiryWorker := worker.NewExpiryWorker(examService, log)
	go expiryWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	startLimiter := middleware.NewRateLimiter(rdb, 30, time.Minute, log)
	r := router.SetupRouter(authService, startLimiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
