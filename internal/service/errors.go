package service

import "errors"

// Domain errors surfaced to handlers, which map them onto HTTP statuses.
var (
	// Token redemption (attempt start).
	ErrTokenNotFound = errors.New("token does not exist")
	ErrTokenUsed     = errors.New("token was already used")
	ErrTokenExpired  = errors.New("token has expired")

	// Token generation.
	ErrTokenCreationExhausted = errors.New("token code generation retries exhausted")

	// Attempt lifecycle.
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrExamFinished    = errors.New("exam already finished")

	// Answer recording.
	ErrOutOfOrder      = errors.New("answer out of order")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrInvalidQuestion = errors.New("assigned question does not belong to attempt")
	ErrInvalidOption   = errors.New("option does not belong to question")
)
