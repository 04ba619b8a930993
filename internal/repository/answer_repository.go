package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnswerRepository handles answer records.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Insert appends the answer for an assigned question. The INSERT only matches
// when the chosen option belongs to the assigned question's bank question;
// zero rows affected surfaces ErrOptionMismatch. A concurrent duplicate for
// the same slot loses against the uniqueness constraint and gets
// ErrDuplicateAnswer, leaving the first record unchanged.
func (r *AnswerRepository) Insert(ctx context.Context, preguntaIntentoID, opcionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO respuestas (pregunta_intento_id, opcion_id)
		 SELECT $1, $2
		 WHERE EXISTS (
			SELECT 1 FROM opciones o
			JOIN preguntas_intento pi ON pi.pregunta_id = o.pregunta_id
			WHERE o.id = $2 AND pi.id = $1
		 )`,
		preguntaIntentoID, opcionID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAnswer
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOptionMismatch
	}
	return nil
}

// GradeCounts tallies the attempt for grading: correct answers and total
// assigned questions. Unanswered positions count against the total, so an
// expired attempt is graded over the full sequence.
func (r *AnswerRepository) GradeCounts(ctx context.Context, intentoID uuid.UUID) (correct, total int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE o.es_correcta), COUNT(pi.id)
		 FROM preguntas_intento pi
		 LEFT JOIN respuestas r ON r.pregunta_intento_id = pi.id
		 LEFT JOIN opciones o ON o.id = r.opcion_id
		 WHERE pi.intento_id = $1`, intentoID,
	).Scan(&correct, &total)
	return correct, total, err
}
