// Package items owns the active and archived collections and applies every
// lifecycle and link mutation optimistically, rolling back when the item
// service rejects it.
package items

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ananyateklu/second-brain-sub004/linkgraph"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// Gateway is the item service. It performs no retries.
type Gateway interface {
	CreateItem(ctx context.Context, d model.Draft) (*model.Item, error)
	UpdateItem(ctx context.Context, id string, p model.Patch) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) (*model.Item, error)
	ArchiveItem(ctx context.Context, id string) (*model.Item, error)
	UnarchiveItem(ctx context.Context, id string) (*model.Item, error)
	RestoreItem(ctx context.Context, id string) (*model.Item, error)
	AddLink(ctx context.Context, sourceID, targetID string) (*model.LinkResult, error)
	RemoveLink(ctx context.Context, sourceID, targetID string) (*model.LinkResult, error)
	ListItems(ctx context.Context, archived bool) ([]model.Item, error)
}

// Trash receives items after a successful delete.
type Trash interface {
	MoveToTrash(t model.TrashedItem)
}

// Recorder receives audit entries. It must not block.
type Recorder interface {
	Record(ctx context.Context, e model.ActivityEntry)
}

// Store is the single owner of the active and archived collections. Both are
// kept sorted: active by Compare, archived by CompareArchived.
type Store struct {
	mu       sync.RWMutex
	active   []model.Item
	archived []model.Item

	gw    Gateway
	trash Trash
	rec   Recorder
	log   zerolog.Logger
	now   func() time.Time

	unmounted atomic.Bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides time.Now for optimistic timestamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// New builds an empty store. Call Load to populate it.
func New(gw Gateway, trash Trash, rec Recorder, opts ...Option) *Store {
	s := &Store{gw: gw, trash: trash, rec: rec, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces both collections with the item service's lists.
func (s *Store) Load(ctx context.Context) error {
	var active, archived []model.Item
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.gw.ListItems(gctx, false)
		return err
	})
	g.Go(func() error {
		var err error
		archived, err = s.gw.ListItems(gctx, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.NewRemoteError("load", err)
	}

	a := make([]model.Item, 0, len(active))
	for _, it := range active {
		if it.State() == model.StateActive {
			a = append(a, it.Clone())
		}
	}
	r := make([]model.Item, 0, len(archived))
	for _, it := range archived {
		if it.State() == model.StateArchived {
			r = append(r, it.Clone())
		}
	}
	slices.SortFunc(a, Compare)
	slices.SortFunc(r, CompareArchived)

	if !s.Mounted() {
		return nil
	}
	s.mu.Lock()
	s.active, s.archived = a, r
	s.mu.Unlock()
	s.log.Debug().Int("active", len(a)).Int("archived", len(r)).Msg("items loaded")
	return nil
}

// Unmount stops the store from committing results of in-flight operations.
func (s *Store) Unmount() { s.unmounted.Store(true) }

// Mounted reports whether results are still being committed.
func (s *Store) Mounted() bool { return !s.unmounted.Load() }

// Active returns a copy of the active collection in display order.
func (s *Store) Active() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.active)
}

// Archived returns a copy of the archived collection in display order.
func (s *Store) Archived() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.archived)
}

// Get returns the item with id from either collection.
func (s *Store) Get(id string) (model.Item, model.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, coll := s.getLocked(id)
	if coll == none {
		return model.Item{}, "", false
	}
	return it.Clone(), coll.state(), true
}

// LinkedItems resolves the links of id, skipping IDs that no longer name an
// active or archived item.
func (s *Store) LinkedItems(id string) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, coll := s.getLocked(id)
	if coll == none {
		return nil, model.NewNotFoundError("item", id)
	}
	live := linkgraph.LiveLinks(it, func(x string) bool {
		c, _ := s.findLocked(x)
		return c != none
	})
	out := make([]model.Item, 0, len(live))
	for _, x := range live {
		linked, _ := s.getLocked(x)
		out = append(out, linked.Clone())
	}
	return out, nil
}

func (s *Store) record(ctx context.Context, e model.ActivityEntry) {
	if s.rec == nil || !s.Mounted() {
		return
	}
	s.rec.Record(ctx, e)
}

func cloneAll(in []model.Item) []model.Item {
	out := make([]model.Item, 0, len(in))
	for _, it := range in {
		out = append(out, it.Clone())
	}
	return out
}
