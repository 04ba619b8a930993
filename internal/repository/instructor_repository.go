package repository

import (
	"context"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InstructorRepository handles instructor account data access.
type InstructorRepository struct {
	pool *pgxpool.Pool
}

// NewInstructorRepository creates a new InstructorRepository.
func NewInstructorRepository(pool *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{pool: pool}
}

// GetByUsuario retrieves an instructor by username.
func (r *InstructorRepository) GetByUsuario(ctx context.Context, usuario string) (*model.Instructor, error) {
	i := &model.Instructor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, usuario, nombre_completo, contrasena_hash, fecha_creacion
		 FROM instructores
		 WHERE usuario = $1`, usuario,
	).Scan(&i.ID, &i.Usuario, &i.NombreCompleto, &i.PasswordHash, &i.FechaCreacion)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// Create inserts a new instructor account.
func (r *InstructorRepository) Create(ctx context.Context, i *model.Instructor) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO instructores (usuario, nombre_completo, contrasena_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, fecha_creacion`,
		i.Usuario, i.NombreCompleto, i.PasswordHash,
	).Scan(&i.ID, &i.FechaCreacion)
}
