package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
	"subtrack/internal/infra/metrics"
)

// EntitlementUseCase is the single source of truth for "is unlimited usage
// currently allowed". Activity is always re-derived from the stored expiry
// timestamp; the persisted boolean alone is never trusted.
type EntitlementUseCase struct {
	repo  repository.EntitlementRepository
	cache SummaryInvalidator
	log   *zerolog.Logger
	now   func() time.Time
}

func NewEntitlementUseCase(repo repository.EntitlementRepository, cache SummaryInvalidator, logger *zerolog.Logger) *EntitlementUseCase {
	ucLog := logger.With().Str("component", "EntitlementUseCase").Logger()
	return &EntitlementUseCase{repo: repo, cache: cache, log: &ucLog, now: time.Now}
}

// Current loads the stored entitlement, sanitizes it against the current
// clock, and persists any downgrade so that a stale premium flag is
// corrected at most once. Runs once at startup before the ledger is used.
func (uc *EntitlementUseCase) Current(ctx context.Context) (model.Entitlement, error) {
	stored, err := uc.repo.Load(ctx)
	if err != nil {
		return model.Entitlement{}, err
	}
	clean := stored.Sanitize(uc.now())
	if clean != stored {
		if err := uc.repo.Save(ctx, clean); err != nil {
			return model.Entitlement{}, err
		}
		// The summary carries premium/at_limit flags, so a downgrade
		// must drop any cached copy.
		if err := uc.invalidate(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("summary cache invalidation failed")
		}
		uc.log.Info().
			Str("plan", string(stored.Plan)).
			Str("premium_until", stored.PremiumUntil).
			Msg("stale premium entitlement downgraded")
	}
	metrics.SetPremiumActive(clean.IsActive(uc.now()))
	return clean, nil
}

// IsActive reports whether premium is in force right now. Recomputed from
// the stored timestamp on every call; no caching of the answer.
func (uc *EntitlementUseCase) IsActive(ctx context.Context) (bool, error) {
	stored, err := uc.repo.Load(ctx)
	if err != nil {
		return false, err
	}
	return stored.IsActive(uc.now()), nil
}

// Grant activates premium for the plan's duration starting now and persists
// the new state. No money changes hands.
func (uc *EntitlementUseCase) Grant(ctx context.Context, plan model.PremiumPlan) (model.Entitlement, error) {
	e, err := model.GrantPremium(plan, uc.now())
	if err != nil {
		return model.Entitlement{}, err
	}
	if err := uc.repo.Save(ctx, e); err != nil {
		return model.Entitlement{}, err
	}
	if err := uc.invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("summary cache invalidation failed")
	}
	metrics.IncPremiumGrant(string(plan))
	metrics.SetPremiumActive(true)
	uc.log.Info().Str("plan", string(plan)).Str("premium_until", e.PremiumUntil).Msg("premium granted")
	return e, nil
}

func (uc *EntitlementUseCase) invalidate(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Invalidate(ctx)
}
