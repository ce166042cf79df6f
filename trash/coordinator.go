// Package trash keeps recently deleted items recoverable until the item
// service purges them.
package trash

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// DefaultRetention matches the item service's purge window.
const DefaultRetention = 30 * 24 * time.Hour

// Restorer puts a trashed item back into the active collection.
type Restorer interface {
	Reinstate(ctx context.Context, t model.TrashedItem) (*model.Item, error)
}

// Source lists the trash as the item service sees it.
type Source interface {
	ListTrash(ctx context.Context) ([]model.TrashedItem, error)
}

// Coordinator owns the client's view of the trash. Expiry is advisory: the
// coordinator never purges.
type Coordinator struct {
	mu        sync.RWMutex
	items     []model.TrashedItem // newest first
	restorer  Restorer
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(c *Coordinator) { c.now = now } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Coordinator) { c.log = l } }

// New returns an empty coordinator. A non-positive retention uses DefaultRetention.
func New(retention time.Duration, opts ...Option) *Coordinator {
	if retention <= 0 {
		retention = DefaultRetention
	}
	c := &Coordinator{retention: retention, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind sets the restorer. The item store and the coordinator reference each
// other, so one side has to be connected after construction.
func (c *Coordinator) Bind(r Restorer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restorer = r
}

// Load replaces the collection with what src reports.
func (c *Coordinator) Load(ctx context.Context, src Source) error {
	items, err := src.ListTrash(ctx)
	if err != nil {
		return err
	}
	items = slices.Clone(items)
	slices.SortStableFunc(items, newestFirst)

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	c.log.Debug().Int("count", len(items)).Msg("trash loaded")
	return nil
}

// MoveToTrash adds t, replacing any entry with the same ID.
func (c *Coordinator) MoveToTrash(t model.TrashedItem) {
	if t.DeletedAt.IsZero() {
		t.DeletedAt = c.now().UTC()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = slices.DeleteFunc(c.items, func(x model.TrashedItem) bool { return x.ID == t.ID })
	c.items = append([]model.TrashedItem{t}, c.items...)
	slices.SortStableFunc(c.items, newestFirst)
}

// Restore hands the trashed item to the restorer and removes it from the
// trash once the restore succeeded. On failure the item stays in the trash.
func (c *Coordinator) Restore(ctx context.Context, id string) (*model.Item, error) {
	c.mu.RLock()
	restorer := c.restorer
	t, ok := c.find(id)
	c.mu.RUnlock()
	if !ok {
		return nil, model.NewNotFoundError("trash", id)
	}
	if restorer == nil {
		return nil, model.NewValidationError("trash", "no restorer bound")
	}

	it, err := restorer.Reinstate(ctx, t)
	if err != nil {
		c.log.Warn().Err(err).Str("item_id", id).Msg("restore from trash failed")
		return nil, err
	}

	c.mu.Lock()
	c.items = slices.DeleteFunc(c.items, func(x model.TrashedItem) bool { return x.ID == id })
	c.mu.Unlock()
	return it, nil
}

// Items returns a copy of the trash, newest first.
func (c *Coordinator) Items() []model.TrashedItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Get returns the trashed item with id.
func (c *Coordinator) Get(id string) (model.TrashedItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.find(id)
}

// Contains reports whether id is in the trash.
func (c *Coordinator) Contains(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// ExpiresAt is when the item service may purge t.
func (c *Coordinator) ExpiresAt(t model.TrashedItem) time.Time {
	return t.DeletedAt.Add(c.retention)
}

// DaysRemaining is the whole number of days, rounded up, until t may be
// purged. It is never negative.
func (c *Coordinator) DaysRemaining(t model.TrashedItem) int {
	left := c.ExpiresAt(t).Sub(c.now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// Expired reports whether t is past its retention window.
func (c *Coordinator) Expired(t model.TrashedItem) bool {
	return !c.now().Before(c.ExpiresAt(t))
}

func (c *Coordinator) find(id string) (model.TrashedItem, bool) {
	for _, t := range c.items {
		if t.ID == id {
			return t, true
		}
	}
	return model.TrashedItem{}, false
}

func newestFirst(a, b model.TrashedItem) int {
	return b.DeletedAt.Compare(a.DeletedAt)
}
