package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
	"subtrack/internal/infra/metrics"
)

// SummaryInvalidator drops any cached dashboard summary after a mutation.
// Implemented by the redis summary cache; nil means no cache is wired.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context) error
}

// LedgerUseCase owns CRUD over the subscription set and enforces the
// entitlement-derived quota on insertion.
type LedgerUseCase struct {
	subs  repository.SubscriptionRepository
	ent   *EntitlementUseCase
	cache SummaryInvalidator
	log   *zerolog.Logger
	now   func() time.Time

	// mu serializes the count-then-insert quota check; a single in-process
	// boundary is all the concurrency model requires.
	mu sync.Mutex
}

func NewLedgerUseCase(subs repository.SubscriptionRepository, ent *EntitlementUseCase, cache SummaryInvalidator, logger *zerolog.Logger) *LedgerUseCase {
	ucLog := logger.With().Str("component", "LedgerUseCase").Logger()
	return &LedgerUseCase{subs: subs, ent: ent, cache: cache, log: &ucLog, now: time.Now}
}

// Add validates the draft, enforces the free-tier quota when no entitlement
// is active, assigns a fresh id and creation timestamp, and persists the
// record. A missing next date defaults to one month out.
func (uc *LedgerUseCase) Add(ctx context.Context, draft *model.Subscription) (*model.Subscription, error) {
	sub, err := model.NewSubscription(draft.Name, draft.Price, draft.Cycle, draft.NextDate, draft.Color, draft.Notes)
	if err != nil {
		return nil, err
	}
	if sub.NextDate.IsZero() {
		sub.NextDate = model.NewDate(uc.now().AddDate(0, 1, 0))
	}
	sub.Active = draft.Active

	uc.mu.Lock()
	defer uc.mu.Unlock()

	active, err := uc.ent.IsActive(ctx)
	if err != nil {
		return nil, err
	}
	if !active {
		count, err := uc.subs.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count >= domain.FreeTierLimit {
			metrics.IncQuotaRejection()
			uc.log.Debug().Int("count", count).Msg("add rejected: free tier limit reached")
			return nil, domain.ErrQuotaExceeded
		}
	}

	sub.ID = uuid.NewString()
	sub.CreatedAt = uc.now()
	if err := uc.subs.Save(ctx, sub); err != nil {
		return nil, err
	}
	if err := uc.invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("summary cache invalidation failed")
	}
	metrics.IncSubscriptionOp("add")
	return sub, nil
}

// Update replaces every field of the stored record except id and creation
// timestamp. Edits are never subject to the quota check.
func (uc *LedgerUseCase) Update(ctx context.Context, id string, patch *model.Subscription) (*model.Subscription, error) {
	existing, err := uc.subs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sub, err := model.NewSubscription(patch.Name, patch.Price, patch.Cycle, patch.NextDate, patch.Color, patch.Notes)
	if err != nil {
		return nil, err
	}
	if sub.NextDate.IsZero() {
		sub.NextDate = existing.NextDate
	}
	sub.ID = existing.ID
	sub.CreatedAt = existing.CreatedAt
	sub.Active = patch.Active

	if err := uc.subs.Save(ctx, sub); err != nil {
		return nil, err
	}
	if err := uc.invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("summary cache invalidation failed")
	}
	metrics.IncSubscriptionOp("update")
	return sub, nil
}

// Remove deletes the record; domain.ErrNotFound when the id is absent.
func (uc *LedgerUseCase) Remove(ctx context.Context, id string) error {
	if err := uc.subs.Delete(ctx, id); err != nil {
		return err
	}
	if err := uc.invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("summary cache invalidation failed")
	}
	metrics.IncSubscriptionOp("remove")
	return nil
}

// Get returns a single record by id.
func (uc *LedgerUseCase) Get(ctx context.Context, id string) (*model.Subscription, error) {
	return uc.subs.FindByID(ctx, id)
}

// List returns the ledger filtered by mode, sorted ascending by next
// charge date.
func (uc *LedgerUseCase) List(ctx context.Context, mode model.FilterMode) ([]*model.Subscription, error) {
	all, err := uc.subs.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return model.FilterByMode(all, mode, uc.now()), nil
}

func (uc *LedgerUseCase) invalidate(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Invalidate(ctx)
}
