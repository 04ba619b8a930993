package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication (instructor) ───────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Exam access tokens ────────────────────────────────────────────
	ErrExamTokenNotFound  ErrCode = "EXAM_TOKEN_NOT_FOUND"
	ErrExamTokenUsed      ErrCode = "EXAM_TOKEN_USED"
	ErrExamTokenExpired   ErrCode = "EXAM_TOKEN_EXPIRED"
	ErrTokenCreationRetry ErrCode = "EXAM_TOKEN_CREATION_EXHAUSTED"

	// ─── Attempts ──────────────────────────────────────────────────────
	ErrAttemptNotFound ErrCode = "ATTEMPT_NOT_FOUND"
	ErrExamFinished    ErrCode = "EXAM_FINISHED"
	ErrOutOfOrder      ErrCode = "ANSWER_OUT_OF_ORDER"
	ErrAlreadyAnswered ErrCode = "ALREADY_ANSWERED"
	ErrInvalidQuestion ErrCode = "INVALID_ASSIGNED_QUESTION"
	ErrInvalidOption   ErrCode = "INVALID_OPTION"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the human-readable (Spanish) message for an error code.
// These strings are part of the wire contract consumed by the exam frontend.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication (instructor) ───────────────────────────────────
	case ErrInvalidCredentials:
		return "Credenciales inválidas"
	case ErrTokenRequired:
		return "Token de autenticación requerido"
	case ErrTokenInvalid:
		return "Token de autenticación no válido"
	case ErrSessionInvalidated:
		return "Su sesión ha finalizado. Inicie sesión nuevamente"

	// ─── Exam access tokens ────────────────────────────────────────────
	case ErrExamTokenNotFound:
		return "Token no válido"
	case ErrExamTokenUsed:
		return "Token ya fue usado"
	case ErrExamTokenExpired:
		return "Token expirado"
	case ErrTokenCreationRetry:
		return "No se pudo crear token"

	// ─── Attempts ──────────────────────────────────────────────────────
	case ErrAttemptNotFound:
		return "Intento no encontrado"
	case ErrExamFinished:
		return "El examen ya finalizó"
	case ErrOutOfOrder:
		return "No se permite responder fuera de orden"
	case ErrAlreadyAnswered:
		return "La pregunta ya fue respondida"
	case ErrInvalidQuestion:
		return "pregunta_intento_id inválido"
	case ErrInvalidOption:
		return "opcion_id inválido"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Campos requeridos faltantes"
	case ErrInvalidID:
		return "Formato de ID no válido"
	case ErrInvalidPayload:
		return "Cuerpo de la petición no válido"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas peticiones. Intente de nuevo más tarde"

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Error interno del servidor"
	default:
		return "Error inesperado"
	}
}
