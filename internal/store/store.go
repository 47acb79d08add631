// Package store persists the activation history. The history is an audit
// trail; it is never read back to restore the active tool set.
package store

import (
	"context"
	"time"
)

// Store defines the persistence contract.
// All implementations must be safe for concurrent use.
type Store interface {
	AppendActivation(ctx context.Context, rec *ActivationRecord) error
	GetActivation(ctx context.Context, id string) (*ActivationRecord, error)
	ListActivations(ctx context.Context, filter ActivationFilter) ([]*ActivationRecord, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Vacuum(ctx context.Context) error

	// Lifecycle
	Close() error
}
