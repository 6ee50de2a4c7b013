package sched

import (
	"context"
	"time"

	"subtrack/internal/usecase"

	"github.com/rs/zerolog"
)

// EntitlementSweeper periodically re-evaluates the premium entitlement so
// an expiry that happens mid-run is persisted without waiting for the next
// API read.
type EntitlementSweeper struct {
	interval time.Duration
	entUC    *usecase.EntitlementUseCase
	log      *zerolog.Logger
}

func NewEntitlementSweeper(interval time.Duration, entUC *usecase.EntitlementUseCase, logger *zerolog.Logger) *EntitlementSweeper {
	compLog := logger.With().Str("component", "EntitlementSweeper").Logger()
	return &EntitlementSweeper{
		interval: interval,
		entUC:    entUC,
		log:      &compLog,
	}
}

func (w *EntitlementSweeper) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting entitlement sweeper")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping entitlement sweeper")
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.entUC.Current(ctx); err != nil {
				w.log.Error().Err(err).Msg("entitlement sweep failed")
			}
		}
	}
}
