package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GradeCounter tallies an attempt for grading. Implemented by
// repository.AnswerRepository.
type GradeCounter interface {
	GradeCounts(ctx context.Context, intentoID uuid.UUID) (correct, total int, err error)
}

// ResultWriter persists a graded outcome. Implemented by
// repository.AttemptRepository.
type ResultWriter interface {
	SetResult(ctx context.Context, id uuid.UUID, nota float64, aprobado bool) error
}

// ScoreGrader is the default grading collaborator: nota is the percentage of
// assigned questions answered correctly (unanswered counts as incorrect, so
// expired attempts are graded over the full sequence), aprobado requires nota
// to reach the configured passing score.
type ScoreGrader struct {
	answers  GradeCounter
	attempts ResultWriter
	passing  float64
	log      zerolog.Logger
}

// NewScoreGrader creates a new ScoreGrader.
func NewScoreGrader(answers GradeCounter, attempts ResultWriter, passingScore float64, log zerolog.Logger) *ScoreGrader {
	return &ScoreGrader{
		answers:  answers,
		attempts: attempts,
		passing:  passingScore,
		log:      log.With().Str("component", "grader").Logger(),
	}
}

// Grade computes and persists the score for a finished attempt.
func (g *ScoreGrader) Grade(ctx context.Context, intentoID uuid.UUID) error {
	correct, total, err := g.answers.GradeCounts(ctx, intentoID)
	if err != nil {
		return fmt.Errorf("grade counts: %w", err)
	}

	nota, aprobado := computeScore(correct, total, g.passing)
	if err := g.attempts.SetResult(ctx, intentoID, nota, aprobado); err != nil {
		return fmt.Errorf("persist result: %w", err)
	}

	g.log.Info().
		Str("intento_id", intentoID.String()).
		Float64("nota", nota).
		Bool("aprobado", aprobado).
		Msg("Attempt graded")
	return nil
}

// computeScore maps correct/total onto a 0-100 nota rounded to two decimals.
func computeScore(correct, total int, passing float64) (nota float64, aprobado bool) {
	if total == 0 {
		return 0, false
	}
	nota = math.Round(float64(correct)/float64(total)*10000) / 100
	return nota, nota >= passing
}
