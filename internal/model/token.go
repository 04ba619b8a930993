package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamToken is a one-time access code that gates a single exam attempt.
// FechaUso is set at most once; a token with FechaUso set is permanently spent.
type ExamToken struct {
	ID              uuid.UUID  `json:"id"`
	CodigoToken     string     `json:"codigo_token"`
	CreadoPor       uuid.UUID  `json:"creado_por"`
	Observaciones   *string    `json:"observaciones,omitempty"`
	FechaCreacion   time.Time  `json:"fecha_creacion"`
	FechaExpiracion *time.Time `json:"fecha_expiracion,omitempty"`
	FechaUso        *time.Time `json:"fecha_uso,omitempty"`
}

// CreateTokenRequest is the instructor payload for generating a new token.
type CreateTokenRequest struct {
	ExpiracionMinutos *int    `json:"expiracion_minutos" binding:"omitempty,min=1,max=43200"`
	Observaciones     *string `json:"observaciones" binding:"omitempty,max=500"`
}
