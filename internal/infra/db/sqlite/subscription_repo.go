package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"subtrack/internal/domain"
	"subtrack/internal/domain/model"
	"subtrack/internal/domain/ports/repository"
)

// Ensure subscriptionRepo implements repository.SubscriptionRepository
var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	store *Store
}

func NewSubscriptionRepo(store *Store) *subscriptionRepo {
	return &subscriptionRepo{store: store}
}

func (r *subscriptionRepo) Save(ctx context.Context, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (id, name, price, cycle, next_date, color, notes, created_at, active)
VALUES (?,?,?,?,?,?,?,?,?)
ON CONFLICT (id) DO UPDATE SET
  name=excluded.name, price=excluded.price, cycle=excluded.cycle,
  next_date=excluded.next_date, color=excluded.color, notes=excluded.notes,
  active=excluded.active;`

	_, err := r.store.db.ExecContext(ctx, q,
		s.ID, s.Name, s.Price, string(s.Cycle), s.NextDate.String(), s.Color, s.Notes,
		s.CreatedAt.UTC().Format(time.RFC3339Nano), boolToInt(s.Active))
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *subscriptionRepo) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	const q = `
SELECT id, name, price, cycle, next_date, color, notes, created_at, active
  FROM subscriptions
 WHERE id=?;`
	return scanSub(r.store.db.QueryRowContext(ctx, q, id))
}

func (r *subscriptionRepo) FindAll(ctx context.Context) ([]*model.Subscription, error) {
	const q = `
SELECT id, name, price, cycle, next_date, color, notes, created_at, active
  FROM subscriptions
 ORDER BY next_date ASC;`
	rows, err := r.store.db.QueryContext(ctx, q)
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
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id=?;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrOperationFailed
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions;`).Scan(&n); err != nil {
		return 0, domain.ErrOperationFailed
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSub(row rowScanner) (*model.Subscription, error) {
	var (
		s         model.Subscription
		cycle     string
		nextDate  string
		createdAt string
		active    int
	)
	err := row.Scan(&s.ID, &s.Name, &s.Price, &cycle, &nextDate, &s.Color, &s.Notes, &createdAt, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Cycle = model.BillingCycle(cycle)
	s.Active = active != 0
	if d, err := model.ParseDate(nextDate); err == nil {
		s.NextDate = d
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		s.CreatedAt = t
	}
	return &s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
