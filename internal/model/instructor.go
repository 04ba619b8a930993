package model

import (
	"time"

	"github.com/google/uuid"
)

// Instructor is a staff account that issues exam tokens.
type Instructor struct {
	ID             uuid.UUID `json:"id"`
	Usuario        string    `json:"usuario"`
	NombreCompleto string    `json:"nombre_completo"`
	PasswordHash   string    `json:"-"`
	FechaCreacion  time.Time `json:"fecha_creacion"`
}

// InstructorLoginRequest is the payload for POST /api/instructor/login.
type InstructorLoginRequest struct {
	Usuario  string `json:"usuario" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=4,max=100"`
}
