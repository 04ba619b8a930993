package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Methods that must run inside the caller's transaction take it explicitly.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Constraint-violation errors surfaced to services.
var (
	// ErrDuplicateCode signals a unique violation on tokens_examen.codigo_token.
	ErrDuplicateCode = errors.New("duplicate token code")
	// ErrDuplicateAnswer signals a second answer raced for the same assigned
	// question; the existing record is untouched.
	ErrDuplicateAnswer = errors.New("question already answered")
	// ErrOptionMismatch signals the option does not belong to the assigned
	// question's bank question.
	ErrOptionMismatch = errors.New("option does not belong to question")
)

// isUniqueViolation reports whether err is a PostgreSQL 23505 error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
