package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
	"subtrack/internal/infra/logging"
	"subtrack/internal/infra/metrics"
)

// Summary is the dashboard projection: aggregate monthly spend plus the
// quota/premium display state.
type Summary struct {
	MonthlyTotal float64 `json:"monthly_total"`
	Count        int     `json:"count"`
	FreeLimit    int     `json:"free_limit"`
	Premium      bool    `json:"premium"`
	PremiumUntil string  `json:"premium_until,omitempty"`
	Unlimited    bool    `json:"unlimited"`
	AtLimit      bool    `json:"at_limit"`
}

// SummaryCache is an optional read-through cache for the computed summary.
type SummaryCache interface {
	Get(ctx context.Context) (*Summary, bool)
	Set(ctx context.Context, s *Summary) error
	SummaryInvalidator
}

// StatsUseCase computes read-only aggregates for the display layer.
type StatsUseCase struct {
	subs  repository.SubscriptionRepository
	ent   *EntitlementUseCase
	cache SummaryCache
	log   *zerolog.Logger
	now   func() time.Time
}

func NewStatsUseCase(subs repository.SubscriptionRepository, ent *EntitlementUseCase, cache SummaryCache, logger *zerolog.Logger) *StatsUseCase {
	ucLog := logger.With().Str("component", "StatsUseCase").Logger()
	return &StatsUseCase{subs: subs, ent: ent, cache: cache, log: &ucLog, now: time.Now}
}

// Summary computes the dashboard aggregate, serving a cached copy when one
// is present. Mutating calls on the ledger invalidate the cache.
func (uc *StatsUseCase) Summary(ctx context.Context) (*Summary, error) {
	if uc.cache != nil {
		if s, ok := uc.cache.Get(ctx); ok {
			return s, nil
		}
	}
	defer logging.TraceDuration(uc.log, "StatsUseCase.Summary")()

	all, err := uc.subs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ent, err := uc.ent.Current(ctx)
	if err != nil {
		return nil, err
	}
	active := ent.IsActive(uc.now())

	s := &Summary{
		MonthlyTotal: model.TotalMonthlyCost(all),
		Count:        len(all),
		FreeLimit:    domain.FreeTierLimit,
		Premium:      active,
		PremiumUntil: ent.PremiumUntil,
		Unlimited:    active,
		AtLimit:      !active && len(all) >= domain.FreeTierLimit,
	}
	metrics.SetMonthlyTotal(s.MonthlyTotal)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, s); err != nil {
			uc.log.Warn().Err(err).Msg("summary cache write failed")
		}
	}
	return s, nil
}

// Dueness classifies every subscription's next charge against the current
// clock, keyed by id.
func (uc *StatsUseCase) Dueness(ctx context.Context) (map[string]model.Dueness, error) {
	all, err := uc.subs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Dueness, len(all))
	now := uc.now()
	for _, s := range all {
		out[s.ID] = s.ClassifyDueness(now)
	}
	return out, nil
}
