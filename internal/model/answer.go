package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is an append-only answer for one assigned question. At most
// one record exists per PreguntaIntentoID; the answered positions of an
// attempt always form a prefix 1..k of the assigned sequence.
type AnswerRecord struct {
	ID                uuid.UUID `json:"id"`
	PreguntaIntentoID uuid.UUID `json:"pregunta_intento_id"`
	OpcionID          uuid.UUID `json:"opcion_id"`
	FechaRespuesta    time.Time `json:"fecha_respuesta"`
}
