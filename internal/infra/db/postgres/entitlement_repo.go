package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
)

// Ensure entitlementRepo implements repository.EntitlementRepository
var _ repository.EntitlementRepository = (*entitlementRepo)(nil)

// entitlementRepo persists the single entitlement record as a one-row table.
type entitlementRepo struct {
	pool *pgxpool.Pool
}

func NewEntitlementRepo(pool *pgxpool.Pool) *entitlementRepo {
	return &entitlementRepo{pool: pool}
}

func (r *entitlementRepo) Load(ctx context.Context) (model.Entitlement, error) {
	const q = `SELECT premium, premium_until, plan FROM entitlement WHERE id=1;`
	var (
		e    model.Entitlement
		plan string
	)
	err := r.pool.QueryRow(ctx, q).Scan(&e.Premium, &e.PremiumUntil, &plan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Entitlement{}, nil
		}
		return model.Entitlement{}, domain.ErrOperationFailed
	}
	e.Plan = model.PremiumPlan(plan)
	return e, nil
}

func (r *entitlementRepo) Save(ctx context.Context, e model.Entitlement) error {
	const q = `
INSERT INTO entitlement (id, premium, premium_until, plan)
VALUES (1, $1, $2, $3)
ON CONFLICT (id) DO UPDATE SET premium=$1, premium_until=$2, plan=$3;`
	if _, err := r.pool.Exec(ctx, q, e.Premium, e.PremiumUntil, string(e.Plan)); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}
