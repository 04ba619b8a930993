package repository

import (
	"context"
	"fmt"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question bank data access. The bank is
// read-only at exam time; writes happen only through seeding.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// CountActive returns the number of questions eligible for assignment.
func (r *QuestionRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM preguntas WHERE activa`).Scan(&count)
	return count, err
}

// CreateWithOptions inserts a bank question and its options in one
// transaction.
func (r *QuestionRepository) CreateWithOptions(ctx context.Context, q *model.Question, opts []model.Option) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.QueryRow(ctx,
		`INSERT INTO preguntas (enunciado, activa) VALUES ($1, $2) RETURNING id`,
		q.Enunciado, q.Activa,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert pregunta: %w", err)
	}

	for idx := range opts {
		opts[idx].PreguntaID = q.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO opciones (pregunta_id, texto, es_correcta) VALUES ($1, $2, $3) RETURNING id`,
			opts[idx].PreguntaID, opts[idx].Texto, opts[idx].EsCorrecta,
		).Scan(&opts[idx].ID)
		if err != nil {
			return fmt.Errorf("insert opcion: %w", err)
		}
	}

	return tx.Commit(ctx)
}
