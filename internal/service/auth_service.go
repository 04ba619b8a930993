package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aulavia/examenes-backend/internal/config"
	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalidated = errors.New("session superseded by a newer login")
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	InstructorID uuid.UUID `json:"instructor_id"`
	Usuario      string    `json:"usuario"`
}

// InstructorStore loads instructor accounts. Implemented by
// repository.InstructorRepository.
type InstructorStore interface {
	GetByUsuario(ctx context.Context, usuario string) (*model.Instructor, error)
}

// AuthService handles instructor authentication, JWT issuing and the
// single-active-session check backed by Redis.
type AuthService struct {
	cfg         *config.Config
	instructors InstructorStore
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, instructors InstructorStore, rdb *redis.Client, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:         cfg,
		instructors: instructors,
		rdb:         rdb,
		log:         log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// Login verifies credentials and issues a JWT. The session jti is stored in
// Redis so a newer login supersedes older tokens (last login wins).
func (s *AuthService) Login(ctx context.Context, usuario, password string) (string, *model.Instructor, error) {
	instructor, err := s.instructors.GetByUsuario(ctx, usuario)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("lookup instructor: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(instructor.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   instructor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		InstructorID: instructor.ID,
		Usuario:      instructor.Usuario,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.InstructorSessionKey(instructor.ID.String())
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	s.log.Info().Str("usuario", usuario).Msg("Instructor logged in")
	return signed, instructor, nil
}

// ValidateToken parses and validates a JWT, then checks the Redis session
// still names this token's jti. Returns ErrSessionInvalidated if a newer
// login replaced it.
func (s *AuthService) ValidateToken(ctx context.Context, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	sessionKey := config.CacheKey.InstructorSessionKey(claims.InstructorID.String())
	jti, err := s.rdb.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) || (err == nil && jti != claims.ID) {
		return nil, ErrSessionInvalidated
	}
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}

	return claims, nil
}
