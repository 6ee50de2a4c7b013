package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) Save(ctx context.Context, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (id, name, price, cycle, next_date, color, notes, created_at, active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  name=$2, price=$3, cycle=$4, next_date=$5, color=$6, notes=$7, active=$9;`

	_, err := r.pool.Exec(ctx, q,
		s.ID, s.Name, s.Price, string(s.Cycle), s.NextDate.Time, s.Color, s.Notes, s.CreatedAt, s.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	const q = `
SELECT id, name, price, cycle, next_date, color, notes, created_at, active
  FROM subscriptions
 WHERE id=$1;`
	return scanSub(r.pool.QueryRow(ctx, q, id))
}

func (r *subscriptionRepo) FindAll(ctx context.Context) ([]*model.Subscription, error) {
	const q = `
SELECT id, name, price, cycle, next_date, color, notes, created_at, active
  FROM subscriptions
 ORDER BY next_date ASC;`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSub(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *subscriptionRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM subscriptions WHERE id=$1;`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM subscriptions;`
	var n int
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, domain.ErrOperationFailed
	}
	return n, nil
}

func scanSub(row pgx.Row) (*model.Subscription, error) {
	var (
		s        model.Subscription
		cycle    string
		nextDate time.Time
	)
	err := row.Scan(&s.ID, &s.Name, &s.Price, &cycle, &nextDate, &s.Color, &s.Notes, &s.CreatedAt, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Cycle = model.BillingCycle(cycle)
	s.NextDate = model.NewDate(nextDate)
	return &s, nil
}
