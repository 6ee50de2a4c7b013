package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
	"subtrack/internal/infra/metrics"
)

// ReminderState is the in-memory reminder flag handed to the display layer.
// Nothing is delivered anywhere; the banner is the whole notification
// surface.
type ReminderState struct {
	DueToday      int       `json:"due_today"`
	DueWithinWeek int       `json:"due_within_week"`
	BannerVisible bool      `json:"banner_visible"`
	CheckedAt     time.Time `json:"checked_at"`
}

// NotificationUseCase recomputes reminder counts and keeps the banner state.
type NotificationUseCase struct {
	subs repository.SubscriptionRepository
	log  *zerolog.Logger
	now  func() time.Time

	mu        sync.RWMutex
	state     ReminderState
	dismissed bool
}

func NewNotificationUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *NotificationUseCase {
	ucLog := logger.With().Str("component", "NotificationUseCase").Logger()
	return &NotificationUseCase{subs: subs, log: &ucLog, now: time.Now}
}

// Refresh recomputes the due-today and due-within-week counts against the
// current clock and updates the banner flag. A dismissed banner stays
// hidden until the counts change.
func (uc *NotificationUseCase) Refresh(ctx context.Context) (ReminderState, error) {
	all, err := uc.subs.FindAll(ctx)
	if err != nil {
		return ReminderState{}, err
	}
	today, week := model.ReminderCounts(all, uc.now())

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if today != uc.state.DueToday || week != uc.state.DueWithinWeek {
		uc.dismissed = false
	}
	uc.state = ReminderState{
		DueToday:      today,
		DueWithinWeek: week,
		BannerVisible: (today > 0 || week > 0) && !uc.dismissed,
		CheckedAt:     uc.now(),
	}
	metrics.SetReminderCounts(today, week)
	return uc.state, nil
}

// State returns the last computed reminder state without touching storage.
func (uc *NotificationUseCase) State() ReminderState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state
}

// Dismiss hides the banner until the underlying counts change.
func (uc *NotificationUseCase) Dismiss() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.dismissed = true
	uc.state.BannerVisible = false
}
