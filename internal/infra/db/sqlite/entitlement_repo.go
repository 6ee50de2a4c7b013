package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
)

// Ensure entitlementRepo implements repository.EntitlementRepository
var _ repository.EntitlementRepository = (*entitlementRepo)(nil)

// entitlementRepo keeps the single entitlement record in a one-row table.
type entitlementRepo struct {
	store *Store
}

func NewEntitlementRepo(store *Store) *entitlementRepo {
	return &entitlementRepo{store: store}
}

func (r *entitlementRepo) Load(ctx context.Context) (model.Entitlement, error) {
	const q = `SELECT premium, premium_until, plan FROM entitlement WHERE id=1;`
	var (
		e       model.Entitlement
		premium int
		plan    string
	)
	err := r.store.db.QueryRowContext(ctx, q).Scan(&premium, &e.PremiumUntil, &plan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Entitlement{}, nil
		}
		return model.Entitlement{}, domain.ErrOperationFailed
	}
	e.Premium = premium != 0
	e.Plan = model.PremiumPlan(plan)
	return e, nil
}

func (r *entitlementRepo) Save(ctx context.Context, e model.Entitlement) error {
	const q = `
INSERT INTO entitlement (id, premium, premium_until, plan)
VALUES (1, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  premium=excluded.premium, premium_until=excluded.premium_until, plan=excluded.plan;`
	if _, err := r.store.db.ExecContext(ctx, q, boolToInt(e.Premium), e.PremiumUntil, string(e.Plan)); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}
