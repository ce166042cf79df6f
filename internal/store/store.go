// Package store defines persistence for the reference item service.
// Implementations live under internal/store/<driver>/ (sqlite, postgres).
package store

import (
	"context"
	"time"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// Store exposes persistence operations required by services.
type Store interface {
	Items() Items
	Activities() Activities
	Preferences() Preferences

	// WithTx runs fn against a Store bound to one transaction. fn's error
	// rolls the transaction back. Calling WithTx inside fn reuses the
	// outer transaction.
	WithTx(ctx context.Context, fn func(Store) error) error

	Close() error
}

// ItemFilter selects rows by lifecycle state.
type ItemFilter struct {
	State model.State
}

type Items interface {
	Insert(ctx context.Context, it *model.Item) error
	// Get returns the row in any state, including trashed. Missing ids yield
	// a model.NotFoundError.
	Get(ctx context.Context, id string) (*model.Item, error)
	// Update replaces every column of an existing row.
	Update(ctx context.Context, it *model.Item) error
	List(ctx context.Context, f ItemFilter) ([]model.Item, error)
	// LinkedTo returns rows whose link set contains id.
	LinkedTo(ctx context.Context, id string) ([]model.Item, error)
	// PurgeDeletedBefore hard-deletes trashed rows whose deletedAt is before
	// cutoff and returns their ids.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

type Activities interface {
	Append(ctx context.Context, e *model.ActivityEntry) error
	// List returns entries newest first. An empty itemID lists all items.
	List(ctx context.Context, itemID string, limit int) ([]model.ActivityEntry, error)
}

type Preferences interface {
	Get(ctx context.Context, key string) (*model.Preference, error)
	Put(ctx context.Context, p *model.Preference) error
}
