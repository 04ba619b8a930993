package worker

import (
	"context"
	"time"

	"github.com/aulavia/examenes-backend/internal/service"
	"github.com/rs/zerolog"
)

const (
	// ExpirySweepInterval bounds how stale an abandoned attempt can stay
	// en_progreso when no client polls it. Lazy per-request expiration
	// remains the authoritative mechanism.
	ExpirySweepInterval = 30 * time.Second
	ExpirySweepBatch    = 100
)

// ExpiryWorker periodically force-expires attempts whose deadline passed.
type ExpiryWorker struct {
	examService *service.ExamService
	log         zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(examService *service.ExamService, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		examService: examService,
		log:         log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ExpiryWorker started")

	ticker := time.NewTicker(ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("ExpiryWorker stopped")
			return
		case <-ticker.C:
			expired, err := w.examService.ExpireOverdue(ctx, ExpirySweepBatch)
			if err != nil {
				if ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Expiration sweep failed")
				}
				continue
			}
			if expired > 0 {
				w.log.Info().Int("expired", expired).Msg("Swept overdue attempts")
			}
		}
	}
}
