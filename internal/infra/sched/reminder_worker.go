package sched

import (
	"context"
	"time"

	"subtrack/internal/usecase"

	"github.com/rs/zerolog"
)

// ReminderWorker keeps the due-charge banner current while the app runs.
type ReminderWorker struct {
	interval time.Duration
	notifUC  *usecase.NotificationUseCase
	log      *zerolog.Logger
}

func NewReminderWorker(interval time.Duration, notifUC *usecase.NotificationUseCase, logger *zerolog.Logger) *ReminderWorker {
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval: interval,
		notifUC:  notifUC,
		log:      &compLog,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting reminder worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *ReminderWorker) runCheck(ctx context.Context) {
	state, err := w.notifUC.Refresh(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("reminder check failed")
		return
	}
	if state.DueToday > 0 || state.DueWithinWeek > 0 {
		w.log.Info().
			Int("due_today", state.DueToday).
			Int("due_within_week", state.DueWithinWeek).
			Msg("charges pending")
	}
}
