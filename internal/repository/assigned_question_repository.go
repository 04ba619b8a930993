package repository

import (
	"context"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignedQuestionRepository handles the per-attempt question sequence.
type AssignedQuestionRepository struct {
	pool *pgxpool.Pool
}

// NewAssignedQuestionRepository creates a new AssignedQuestionRepository.
func NewAssignedQuestionRepository(pool *pgxpool.Pool) *AssignedQuestionRepository {
	return &AssignedQuestionRepository{pool: pool}
}

// AssignRandomTx selects count distinct active bank questions uniformly at
// random and persists them with positions 1..count, inside the attempt
// creation transaction. Runs exactly once per attempt. Returns the number of
// rows actually inserted; fewer than count means the bank is too small.
func (r *AssignedQuestionRepository) AssignRandomTx(ctx context.Context, tx pgx.Tx, intentoID uuid.UUID, count int) (int, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO preguntas_intento (intento_id, pregunta_id, posicion)
		 SELECT $1, p.id, row_number() OVER ()
		 FROM (
			SELECT id FROM preguntas
			WHERE activa
			ORDER BY random()
			LIMIT $2
		 ) p`,
		intentoID, count)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

const fetchByPositionSQL = `
	SELECT pi.id AS pregunta_intento_id, pi.posicion, p.enunciado,
	       json_agg(json_build_object('id', o.id, 'texto', o.texto) ORDER BY random()) AS opciones
	FROM preguntas_intento pi
	JOIN preguntas p ON p.id = pi.pregunta_id
	JOIN opciones o ON o.pregunta_id = p.id
	WHERE pi.intento_id = $1 AND pi.posicion = $2
	GROUP BY pi.id, pi.posicion, p.enunciado`

// FetchByPosition returns the question at the given position, with option
// display order freshly randomized on every call. Returns pgx.ErrNoRows when
// the position exceeds the assigned count (no more questions).
func (r *AssignedQuestionRepository) FetchByPosition(ctx context.Context, intentoID uuid.UUID, posicion int) (*model.QuestionView, error) {
	return fetchByPosition(ctx, r.pool, intentoID, posicion)
}

// FetchByPositionTx is FetchByPosition inside the caller's transaction, used
// to serve position 1 within the attempt-start transaction.
func (r *AssignedQuestionRepository) FetchByPositionTx(ctx context.Context, tx pgx.Tx, intentoID uuid.UUID, posicion int) (*model.QuestionView, error) {
	return fetchByPosition(ctx, tx, intentoID, posicion)
}

func fetchByPosition(ctx context.Context, q Querier, intentoID uuid.UUID, posicion int) (*model.QuestionView, error) {
	v := &model.QuestionView{}
	err := q.QueryRow(ctx, fetchByPositionSQL, intentoID, posicion).
		Scan(&v.PreguntaIntentoID, &v.Posicion, &v.Enunciado, &v.Opciones)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// AnsweredCount counts the answers recorded against this attempt's assigned
// questions. Because answers are accepted strictly in order, this is also the
// highest answered position.
func (r *AssignedQuestionRepository) AnsweredCount(ctx context.Context, intentoID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM respuestas r
		 JOIN preguntas_intento pi ON pi.id = r.pregunta_intento_id
		 WHERE pi.intento_id = $1`, intentoID,
	).Scan(&count)
	return count, err
}

// PositionOf resolves an assigned question's position, verifying it belongs
// to the attempt. Returns pgx.ErrNoRows if it does not.
func (r *AssignedQuestionRepository) PositionOf(ctx context.Context, intentoID, preguntaIntentoID uuid.UUID) (int, error) {
	var posicion int
	err := r.pool.QueryRow(ctx,
		`SELECT posicion FROM preguntas_intento
		 WHERE id = $1 AND intento_id = $2`,
		preguntaIntentoID, intentoID,
	).Scan(&posicion)
	return posicion, err
}

// CountByAttempt returns the fixed length of the attempt's sequence.
func (r *AssignedQuestionRepository) CountByAttempt(ctx context.Context, intentoID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM preguntas_intento WHERE intento_id = $1`, intentoID,
	).Scan(&count)
	return count, err
}
