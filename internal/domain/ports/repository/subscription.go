package repository

import (
	"context"

	"subtrack/internal/domain/model"
)

// SubscriptionRepository is the port for the persisted subscription ledger.
type SubscriptionRepository interface {
	// Save inserts or replaces a subscription by id.
	Save(ctx context.Context, sub *model.Subscription) error
	FindByID(ctx context.Context, id string) (*model.Subscription, error)
	// FindAll returns every subscription ordered ascending by next charge date.
	FindAll(ctx context.Context) ([]*model.Subscription, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
