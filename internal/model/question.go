package model

import (
	"github.com/google/uuid"
)

// Question is an item of the read-only question bank.
type Question struct {
	ID        uuid.UUID `json:"id"`
	Enunciado string    `json:"enunciado"`
	Activa    bool      `json:"activa"`
}

// Option is one answer choice of a bank question.
type Option struct {
	ID         uuid.UUID `json:"id"`
	PreguntaID uuid.UUID `json:"pregunta_id"`
	Texto      string    `json:"texto"`
	EsCorrecta bool      `json:"es_correcta"`
}

// AssignedQuestion binds a bank question to a fixed position within one
// attempt's sequence. Positions form a contiguous 1..N with no duplicates,
// fixed at attempt creation.
type AssignedQuestion struct {
	ID         uuid.UUID `json:"id"`
	IntentoID  uuid.UUID `json:"intento_id"`
	PreguntaID uuid.UUID `json:"pregunta_id"`
	Posicion   int       `json:"posicion"`
}
