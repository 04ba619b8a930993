package repository

import (
	"context"
	"time"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository handles exam access token data access.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// GetByCodeForUpdate loads the token row with an exclusive row lock. Must run
// inside the same transaction that creates the attempt: the lock serializes
// concurrent redemptions of the same code, so the loser observes fecha_uso
// already set. Returns pgx.ErrNoRows if no token matches.
func (r *TokenRepository) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*model.ExamToken, error) {
	t := &model.ExamToken{}
	err := tx.QueryRow(ctx,
		`SELECT id, codigo_token, creado_por, observaciones, fecha_creacion, fecha_expiracion, fecha_uso
		 FROM tokens_examen
		 WHERE codigo_token = $1
		 FOR UPDATE`, code,
	).Scan(&t.ID, &t.CodigoToken, &t.CreadoPor, &t.Observaciones, &t.FechaCreacion, &t.FechaExpiracion, &t.FechaUso)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// MarkUsedTx spends the token inside the redemption transaction.
func (r *TokenRepository) MarkUsedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, usedAt time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE tokens_examen SET fecha_uso = $1 WHERE id = $2`, usedAt, id)
	return err
}

// Insert stores a freshly generated token. Returns ErrDuplicateCode on a
// codigo_token uniqueness conflict so the caller can retry with a new code.
func (r *TokenRepository) Insert(ctx context.Context, t *model.ExamToken) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tokens_examen (codigo_token, creado_por, observaciones, fecha_expiracion)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, fecha_creacion`,
		t.CodigoToken, t.CreadoPor, t.Observaciones, t.FechaExpiracion,
	).Scan(&t.ID, &t.FechaCreacion)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}
