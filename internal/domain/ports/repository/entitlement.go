package repository

import (
	"context"

	"subtrack/internal/domain/model"
)

// EntitlementRepository is the port for the single persisted entitlement
// record.
type EntitlementRepository interface {
	// Load returns the stored entitlement, or the zero value when nothing
	// has been persisted yet. It must not fail on malformed stored data;
	// sanitizing is the caller's job.
	Load(ctx context.Context) (model.Entitlement, error)
	Save(ctx context.Context, e model.Entitlement) error
}
