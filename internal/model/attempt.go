package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AttemptState enumerates exam attempt states. The state is monotonic:
// once completado or expirado it never reverts to en_progreso.
type AttemptState string

const (
	AttemptStateInProgress AttemptState = "en_progreso"
	AttemptStateCompleted  AttemptState = "completado"
	AttemptStateExpired    AttemptState = "expirado"
)

// ExamAttempt represents one student's run through the exam, from token
// redemption to termination.
type ExamAttempt struct {
	ID            uuid.UUID    `json:"id"`
	TokenID       uuid.UUID    `json:"token_id"`
	NombreUsuario string       `json:"nombre_usuario"`
	FechaInicio   time.Time    `json:"fecha_inicio"`
	FechaFin      *time.Time   `json:"fecha_fin,omitempty"`
	Estado        AttemptState `json:"estado"`
	Nota          *float64     `json:"nota,omitempty"`
	Aprobado      *bool        `json:"aprobado,omitempty"`
}

// IsTerminal reports whether no further mutation of the attempt is permitted.
func (a *ExamAttempt) IsTerminal() bool {
	return a.Estado != AttemptStateInProgress
}

// Deadline is the moment the attempt's time budget runs out.
func (a *ExamAttempt) Deadline(duration time.Duration) time.Time {
	return a.FechaInicio.Add(duration)
}

// QuestionView is one assigned question as served to the student: the prompt
// plus the full option set. Option order is freshly randomized on every fetch;
// only the set of options is stable.
type QuestionView struct {
	PreguntaIntentoID uuid.UUID       `json:"pregunta_intento_id"`
	Posicion          int             `json:"posicion"`
	Enunciado         string          `json:"enunciado"`
	Opciones          json.RawMessage `json:"opciones"`
}

// ─── Request payloads ──────────────────────────────────────────────────

// StartExamRequest is the payload for POST /examen/iniciar.
type StartExamRequest struct {
	NombreCompleto string `json:"nombre_completo" binding:"required,min=3,max=255"`
	CodigoToken    string `json:"codigo_token" binding:"required,min=4,max=16"`
}

// AnswerRequest is the payload for POST /examen/responder.
type AnswerRequest struct {
	IntentoID         uuid.UUID `json:"intento_id" binding:"required"`
	PreguntaIntentoID uuid.UUID `json:"pregunta_intento_id" binding:"required"`
	OpcionID          uuid.UUID `json:"opcion_id" binding:"required"`
}

// FinalizeRequest is the payload for POST /examen/finalizar.
type FinalizeRequest struct {
	IntentoID uuid.UUID `json:"intento_id" binding:"required"`
}

// ─── Response payloads ─────────────────────────────────────────────────

// StartExamResponse is returned on a successful attempt start.
type StartExamResponse struct {
	IntentoID uuid.UUID     `json:"intento_id"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Pregunta  *QuestionView `json:"pregunta"`
}

// ProgressResponse is returned while the attempt is still in progress.
type ProgressResponse struct {
	Finalizado bool          `json:"finalizado"`
	ExpiresAt  *time.Time    `json:"expiresAt,omitempty"`
	Pregunta   *QuestionView `json:"pregunta,omitempty"`
}

// ResultResponse is the terminal payload with the graded outcome.
type ResultResponse struct {
	Finalizado bool         `json:"finalizado"`
	Nota       *float64     `json:"nota"`
	Aprobado   *bool        `json:"aprobado"`
	Estado     AttemptState `json:"estado"`
}
