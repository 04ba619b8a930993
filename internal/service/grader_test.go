package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestComputeScore(t *testing.T) {
	cases := []struct {
		name         string
		correct      int
		total        int
		passing      float64
		wantNota     float64
		wantAprobado bool
	}{
		{"all correct", 30, 30, 70, 100, true},
		{"none correct", 0, 30, 70, 0, false},
		{"exactly passing", 21, 30, 70, 70, true},
		{"just below passing", 20, 30, 70, 66.67, false},
		{"rounded to two decimals", 1, 3, 70, 33.33, false},
		{"rounding half up", 5, 8, 60, 62.5, true},
		{"empty sequence", 0, 0, 70, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nota, aprobado := computeScore(tc.correct, tc.total, tc.passing)
			if nota != tc.wantNota {
				t.Errorf("nota = %v, want %v", nota, tc.wantNota)
			}
			if aprobado != tc.wantAprobado {
				t.Errorf("aprobado = %v, want %v", aprobado, tc.wantAprobado)
			}
		})
	}
}

type fakeGradeCounter struct {
	correct, total int
}

func (f fakeGradeCounter) GradeCounts(ctx context.Context, intentoID uuid.UUID) (int, int, error) {
	return f.correct, f.total, nil
}

func TestScoreGraderPersistsResult(t *testing.T) {
	h := newHarness(5)
	h.addToken("ABCD2345", nil)
	resp := h.start(t, "ABCD2345")

	grader := NewScoreGrader(fakeGradeCounter{correct: 24, total: 30}, h.attempts, 70, zerolog.Nop())
	if err := grader.Grade(context.Background(), resp.IntentoID); err != nil {
		t.Fatalf("Grade: %v", err)
	}

	attempt, err := h.attempts.GetByID(context.Background(), resp.IntentoID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if attempt.Nota == nil || *attempt.Nota != 80 {
		t.Errorf("nota = %v, want 80", attempt.Nota)
	}
	if attempt.Aprobado == nil || !*attempt.Aprobado {
		t.Errorf("aprobado = %v, want true", attempt.Aprobado)
	}
}
