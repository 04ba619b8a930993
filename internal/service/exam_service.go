package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aulavia/examenes-backend/internal/config"
	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/aulavia/examenes-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ExamService is the attempt lifecycle orchestrator. All session state lives
// in the store and is reconstructed per request; the only mutually exclusive
// resources are the token row (during redemption) and the attempt row (during
// terminal transitions).
type ExamService struct {
	store    TxRunner
	tokens   TokenLedger
	attempts AttemptStore
	sequence SequenceStore
	answers  AnswerStore
	grader   Grader
	cfg      *config.Config
	log      zerolog.Logger

	now func() time.Time
}

// NewExamService creates a new ExamService.
func NewExamService(
	store TxRunner,
	tokens TokenLedger,
	attempts AttemptStore,
	sequence SequenceStore,
	answers AnswerStore,
	grader Grader,
	cfg *config.Config,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		store:    store,
		tokens:   tokens,
		attempts: attempts,
		sequence: sequence,
		answers:  answers,
		grader:   grader,
		cfg:      cfg,
		log:      log.With().Str("component", "exam_service").Logger(),
		now:      time.Now,
	}
}

// Start redeems the token, creates the attempt, assigns its question sequence
// and serves position 1, all in one transaction. The FOR UPDATE lock on the
// token row serializes concurrent redemptions of the same code: exactly one
// caller succeeds, the other observes fecha_uso and fails ErrTokenUsed.
func (s *ExamService) Start(ctx context.Context, nombreCompleto, codigoToken string) (*model.StartExamResponse, error) {
	var resp *model.StartExamResponse

	err := s.store.WithTx(ctx, func(tx pgx.Tx) error {
		token, err := s.tokens.GetByCodeForUpdate(ctx, tx, codigoToken)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTokenNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup token: %w", err)
		}

		now := s.now()
		if token.FechaUso != nil {
			return ErrTokenUsed
		}
		if token.FechaExpiracion != nil && token.FechaExpiracion.Before(now) {
			return ErrTokenExpired
		}

		if err := s.tokens.MarkUsedTx(ctx, tx, token.ID, now); err != nil {
			return fmt.Errorf("mark token used: %w", err)
		}

		attempt := &model.ExamAttempt{TokenID: token.ID, NombreUsuario: nombreCompleto}
		if err := s.attempts.CreateTx(ctx, tx, attempt); err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}

		assigned, err := s.sequence.AssignRandomTx(ctx, tx, attempt.ID, s.cfg.QuestionsPerAttempt)
		if err != nil {
			return fmt.Errorf("assign questions: %w", err)
		}
		if assigned < s.cfg.QuestionsPerAttempt {
			return fmt.Errorf("question bank too small: assigned %d of %d", assigned, s.cfg.QuestionsPerAttempt)
		}

		first, err := s.sequence.FetchByPositionTx(ctx, tx, attempt.ID, 1)
		if err != nil {
			return fmt.Errorf("fetch first question: %w", err)
		}

		resp = &model.StartExamResponse{
			IntentoID: attempt.ID,
			ExpiresAt: attempt.Deadline(s.cfg.ExamDuration),
			Pregunta:  first,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("intento_id", resp.IntentoID.String()).
		Str("nombre", nombreCompleto).
		Msg("Attempt started")

	return resp, nil
}

// CurrentQuestion serves the first unanswered position, or the final result
// when the attempt is terminal. An attempt whose every position is answered
// but which was never finalized is finalized here.
// Exactly one of the return values is non-nil on success.
func (s *ExamService) CurrentQuestion(ctx context.Context, intentoID uuid.UUID) (*model.ProgressResponse, *model.ResultResponse, error) {
	attempt, err := s.getAttempt(ctx, intentoID)
	if err != nil {
		return nil, nil, err
	}

	attempt, err = s.checkAndExpire(ctx, attempt)
	if err != nil {
		return nil, nil, err
	}
	if attempt.IsTerminal() {
		return nil, resultOf(attempt), nil
	}

	answered, err := s.sequence.AnsweredCount(ctx, intentoID)
	if err != nil {
		return nil, nil, fmt.Errorf("count answers: %w", err)
	}

	question, err := s.sequence.FetchByPosition(ctx, intentoID, answered+1)
	if errors.Is(err, pgx.ErrNoRows) {
		// Every position is answered but the attempt was never finalized
		// (e.g. the client dropped after the last answer). Finalize now.
		attempt, err = s.finalizeAttempt(ctx, intentoID, model.AttemptStateCompleted)
		if err != nil {
			return nil, nil, err
		}
		return nil, resultOf(attempt), nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("fetch question: %w", err)
	}

	expiresAt := attempt.Deadline(s.cfg.ExamDuration)
	return &model.ProgressResponse{
		Finalizado: false,
		ExpiresAt:  &expiresAt,
		Pregunta:   question,
	}, nil, nil
}

// Answer records one answer, strictly in order and exactly once per position.
// On the last position the attempt is finalized and the result returned;
// otherwise the next question is served.
// Exactly one of the return values is non-nil on success.
func (s *ExamService) Answer(ctx context.Context, intentoID, preguntaIntentoID, opcionID uuid.UUID) (*model.ProgressResponse, *model.ResultResponse, error) {
	attempt, err := s.getAttempt(ctx, intentoID)
	if err != nil {
		return nil, nil, err
	}

	attempt, err = s.checkAndExpire(ctx, attempt)
	if err != nil {
		return nil, nil, err
	}
	if attempt.IsTerminal() {
		return nil, nil, ErrExamFinished
	}

	posicion, err := s.sequence.PositionOf(ctx, intentoID, preguntaIntentoID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrInvalidQuestion
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolve position: %w", err)
	}

	answered, err := s.sequence.AnsweredCount(ctx, intentoID)
	if err != nil {
		return nil, nil, fmt.Errorf("count answers: %w", err)
	}
	// Rejects both replay of an earlier position and skipping ahead. A
	// concurrent duplicate that passes this check still loses on the
	// uniqueness constraint below.
	if posicion != answered+1 {
		return nil, nil, ErrOutOfOrder
	}

	if err := s.answers.Insert(ctx, preguntaIntentoID, opcionID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateAnswer):
			return nil, nil, ErrAlreadyAnswered
		case errors.Is(err, repository.ErrOptionMismatch):
			return nil, nil, ErrInvalidOption
		default:
			return nil, nil, fmt.Errorf("record answer: %w", err)
		}
	}

	next, err := s.sequence.FetchByPosition(ctx, intentoID, posicion+1)
	if errors.Is(err, pgx.ErrNoRows) {
		attempt, err = s.finalizeAttempt(ctx, intentoID, model.AttemptStateCompleted)
		if err != nil {
			return nil, nil, err
		}
		return nil, resultOf(attempt), nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("fetch next question: %w", err)
	}

	return &model.ProgressResponse{Finalizado: false, Pregunta: next}, nil, nil
}

// Finalize is the explicit manual termination path. Idempotent: a terminal
// attempt just returns its existing result. The deadline is checked first, so
// an overdue attempt ends expirado even when finalized manually.
func (s *ExamService) Finalize(ctx context.Context, intentoID uuid.UUID) (*model.ResultResponse, error) {
	attempt, err := s.getAttempt(ctx, intentoID)
	if err != nil {
		return nil, err
	}

	attempt, err = s.checkAndExpire(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if attempt.IsTerminal() {
		return resultOf(attempt), nil
	}

	attempt, err = s.finalizeAttempt(ctx, intentoID, model.AttemptStateCompleted)
	if err != nil {
		return nil, err
	}
	return resultOf(attempt), nil
}

// Result returns the attempt outcome. While the attempt is in progress nota
// and aprobado are null and finalizado is false.
func (s *ExamService) Result(ctx context.Context, intentoID uuid.UUID) (*model.ResultResponse, error) {
	attempt, err := s.getAttempt(ctx, intentoID)
	if err != nil {
		return nil, err
	}

	attempt, err = s.checkAndExpire(ctx, attempt)
	if err != nil {
		return nil, err
	}
	return resultOf(attempt), nil
}

// ExpireOverdue force-expires attempts whose deadline has passed. Called by
// the periodic sweep worker; the per-request lazy check remains authoritative,
// this only tightens staleness for attempts nobody polls anymore.
func (s *ExamService) ExpireOverdue(ctx context.Context, batchSize int) (int, error) {
	cutoff := s.now().Add(-s.cfg.ExamDuration)
	ids, err := s.attempts.ListOverdue(ctx, cutoff, batchSize)
	if err != nil {
		return 0, fmt.Errorf("list overdue attempts: %w", err)
	}

	expired := 0
	for _, id := range ids {
		if _, err := s.finalizeAttempt(ctx, id, model.AttemptStateExpired); err != nil {
			s.log.Error().Err(err).Str("intento_id", id.String()).Msg("Sweep expiration failed")
			continue
		}
		expired++
	}
	return expired, nil
}

// ─── Internal helpers ──────────────────────────────────────────────────

func (s *ExamService) getAttempt(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error) {
	attempt, err := s.attempts.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return attempt, nil
}

// checkAndExpire is the lazy expiration monitor, run at the start of every
// attempt-scoped operation. Past the deadline it forces the expirado
// transition. Terminal attempts pass through ensureGraded so an attempt whose
// grading failed earlier is repaired here.
func (s *ExamService) checkAndExpire(ctx context.Context, attempt *model.ExamAttempt) (*model.ExamAttempt, error) {
	if attempt.IsTerminal() {
		return s.ensureGraded(ctx, attempt)
	}
	if s.now().Before(attempt.Deadline(s.cfg.ExamDuration)) {
		return attempt, nil
	}
	return s.finalizeAttempt(ctx, attempt.ID, model.AttemptStateExpired)
}

// finalizeAttempt performs the guarded terminal transition, then makes sure a
// grade is recorded. Grading is gated on nota still being null rather than on
// winning the transition: if grading fails after the state write commits, the
// next attempt-scoped call retries it instead of leaving the attempt terminal
// and ungraded forever.
func (s *ExamService) finalizeAttempt(ctx context.Context, id uuid.UUID, estado model.AttemptState) (*model.ExamAttempt, error) {
	won, err := s.attempts.MarkTerminalIfInProgress(ctx, id, estado, s.now())
	if err != nil {
		return nil, fmt.Errorf("terminal transition: %w", err)
	}
	if won {
		s.log.Info().
			Str("intento_id", id.String()).
			Str("estado", string(estado)).
			Msg("Attempt finalized")
	}

	attempt, err := s.getAttempt(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ensureGraded(ctx, attempt)
}

// ensureGraded invokes the grader for a terminal attempt whose nota is still
// null. Two racing callers may both grade; the grader is deterministic over
// the committed answers, so the duplicate write persists the same values.
func (s *ExamService) ensureGraded(ctx context.Context, attempt *model.ExamAttempt) (*model.ExamAttempt, error) {
	if !attempt.IsTerminal() || attempt.Nota != nil {
		return attempt, nil
	}
	if err := s.grader.Grade(ctx, attempt.ID); err != nil {
		return nil, fmt.Errorf("grade attempt: %w", err)
	}
	return s.getAttempt(ctx, attempt.ID)
}

func resultOf(a *model.ExamAttempt) *model.ResultResponse {
	return &model.ResultResponse{
		Finalizado: a.IsTerminal(),
		Nota:       a.Nota,
		Aprobado:   a.Aprobado,
		Estado:     a.Estado,
	}
}
