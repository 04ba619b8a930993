package service

import (
	"context"
	"time"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxRunner provides scoped transaction acquisition: begin, operate, commit on
// success, rollback on error. Implemented by database.Store.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// TokenLedger validates and atomically consumes one-time access tokens.
// Implemented by repository.TokenRepository.
type TokenLedger interface {
	GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.ExamToken, error)
	MarkUsedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, usedAt time.Time) error
	Insert(ctx context.Context, t *model.ExamToken) error
}

// AttemptStore persists exam attempts. Implemented by
// repository.AttemptRepository.
type AttemptStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, a *model.ExamAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error)
	MarkTerminalIfInProgress(ctx context.Context, id uuid.UUID, estado model.AttemptState, finishedAt time.Time) (bool, error)
	ListOverdue(ctx context.Context, startedBefore time.Time, limit int) ([]uuid.UUID, error)
}

// SequenceStore manages the randomized fixed-length question sequence of an
// attempt. Implemented by repository.AssignedQuestionRepository.
type SequenceStore interface {
	AssignRandomTx(ctx context.Context, tx pgx.Tx, intentoID uuid.UUID, count int) (int, error)
	FetchByPositionTx(ctx context.Context, tx pgx.Tx, intentoID uuid.UUID, posicion int) (*model.QuestionView, error)
	FetchByPosition(ctx context.Context, intentoID uuid.UUID, posicion int) (*model.QuestionView, error)
	AnsweredCount(ctx context.Context, intentoID uuid.UUID) (int, error)
	PositionOf(ctx context.Context, intentoID, preguntaIntentoID uuid.UUID) (int, error)
}

// AnswerStore appends answer records. Implemented by
// repository.AnswerRepository.
type AnswerStore interface {
	Insert(ctx context.Context, preguntaIntentoID, opcionID uuid.UUID) error
}

// Grader computes and persists the score and pass/fail flag for a finished
// attempt. Invoked once per attempt in the common case, but re-invoked after
// a grading failure until a nota is recorded, so implementations must be
// deterministic over the committed answers. The formula is the grader's own
// business.
type Grader interface {
	Grade(ctx context.Context, intentoID uuid.UUID) error
}
