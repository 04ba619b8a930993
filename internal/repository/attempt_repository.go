package repository

import (
	"context"
	"time"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepository handles exam attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// CreateTx inserts a new attempt inside the token-redemption transaction.
// fecha_inicio and estado come from the database defaults.
func (r *AttemptRepository) CreateTx(ctx context.Context, tx pgx.Tx, a *model.ExamAttempt) error {
	return tx.QueryRow(ctx,
		`INSERT INTO intentos_examen (token_id, nombre_usuario)
		 VALUES ($1, $2)
		 RETURNING id, fecha_inicio, estado`,
		a.TokenID, a.NombreUsuario,
	).Scan(&a.ID, &a.FechaInicio, &a.Estado)
}

// GetByID retrieves an attempt. Returns pgx.ErrNoRows if unknown.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, token_id, nombre_usuario, fecha_inicio, fecha_fin, estado, nota, aprobado
		 FROM intentos_examen
		 WHERE id = $1`, id,
	).Scan(&a.ID, &a.TokenID, &a.NombreUsuario, &a.FechaInicio, &a.FechaFin, &a.Estado, &a.Nota, &a.Aprobado)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// MarkTerminalIfInProgress moves the attempt to a terminal state, but only if
// it is still en_progreso at write time. Returns true if this caller won the
// transition; a racing finalizer observes false and just reloads the row.
func (r *AttemptRepository) MarkTerminalIfInProgress(ctx context.Context, id uuid.UUID, estado model.AttemptState, finishedAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE intentos_examen
		 SET estado = $1, fecha_fin = $2
		 WHERE id = $3 AND estado = $4`,
		estado, finishedAt, id, model.AttemptStateInProgress)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetResult persists the graded outcome for a finished attempt.
func (r *AttemptRepository) SetResult(ctx context.Context, id uuid.UUID, nota float64, aprobado bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE intentos_examen SET nota = $1, aprobado = $2 WHERE id = $3`,
		nota, aprobado, id)
	return err
}

// ListOverdue returns attempts still en_progreso whose deadline has passed.
// Used by the periodic expiration sweep; lazy per-request expiration remains
// the authoritative path.
func (r *AttemptRepository) ListOverdue(ctx context.Context, startedBefore time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM intentos_examen
		 WHERE estado = $1 AND fecha_inicio < $2
		 ORDER BY fecha_inicio
		 LIMIT $3`,
		model.AttemptStateInProgress, startedBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
