package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/aulavia/examenes-backend/internal/model"
	"github.com/aulavia/examenes-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// tokenCodeAlphabet excludes the confusable characters 0, O, 1 and I so codes
// survive being read aloud or typed from a phone screen. Exactly 32 symbols,
// so byte % len is unbiased.
const tokenCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	tokenCodeLength        = 8
	maxTokenInsertAttempts = 5
)

// TokenService generates one-time exam access tokens.
type TokenService struct {
	tokens TokenLedger
	log    zerolog.Logger

	now func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(tokens TokenLedger, log zerolog.Logger) *TokenService {
	return &TokenService{
		tokens: tokens,
		log:    log.With().Str("component", "token_service").Logger(),
		now:    time.Now,
	}
}

// Create issues a new token for an instructor. Code collisions are retried
// with a freshly generated code up to maxTokenInsertAttempts times before
// surfacing ErrTokenCreationExhausted.
func (s *TokenService) Create(ctx context.Context, creadoPor uuid.UUID, req *model.CreateTokenRequest) (*model.ExamToken, error) {
	var fechaExpiracion *time.Time
	if req.ExpiracionMinutos != nil {
		t := s.now().Add(time.Duration(*req.ExpiracionMinutos) * time.Minute)
		fechaExpiracion = &t
	}

	for attempt := 0; attempt < maxTokenInsertAttempts; attempt++ {
		code, err := GenerateTokenCode(tokenCodeLength)
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		token := &model.ExamToken{
			CodigoToken:     code,
			CreadoPor:       creadoPor,
			Observaciones:   req.Observaciones,
			FechaExpiracion: fechaExpiracion,
		}

		err = s.tokens.Insert(ctx, token)
		if errors.Is(err, repository.ErrDuplicateCode) {
			s.log.Debug().Int("attempt", attempt+1).Msg("Token code collision, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("insert token: %w", err)
		}

		s.log.Info().
			Str("token_id", token.ID.String()).
			Str("creado_por", creadoPor.String()).
			Msg("Exam token created")
		return token, nil
	}

	return nil, ErrTokenCreationExhausted
}

// GenerateTokenCode produces a random human-enterable code of the given
// length from the confusable-free alphabet.
func GenerateTokenCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = tokenCodeAlphabet[int(b)%len(tokenCodeAlphabet)]
	}
	return string(buf), nil
}
