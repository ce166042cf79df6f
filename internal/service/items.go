// Package service holds the item service's lifecycle rules on top of a store.
package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ananyateklu/second-brain-sub004/internal/store"
	"github.com/ananyateklu/second-brain-sub004/linkgraph"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// Items orchestrates item, trash, activity and preference use cases.
type Items struct {
	store     store.Store
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures Items.
type Option func(*Items)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Items) { s.now = now } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Items) { s.log = l } }

func NewItems(st store.Store, retention time.Duration, opts ...Option) *Items {
	s := &Items{store: st, retention: retention, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RetentionDays is the trash window reported to clients.
func (s *Items) RetentionDays() int { return int(s.retention / (24 * time.Hour)) }

func (s *Items) stamp() time.Time { return s.now().UTC().Truncate(time.Microsecond) }

// Create assigns an id and timestamps.
func (s *Items) Create(ctx context.Context, d model.Draft) (*model.Item, error) {
	d = d.Normalize()
	if err := model.ValidateDraft(d); err != nil {
		return nil, err
	}
	now := s.stamp()
	it := &model.Item{
		ID: uuid.NewString(), Title: d.Title, Content: d.Content, Tags: d.Tags,
		IsIdea: d.IsIdea, IsPinned: d.IsPinned, IsFavorite: d.IsFavorite,
		LinkedItemIDs: []string{}, CreatedAt: now, UpdatedAt: now,
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	if err := s.store.Items().Insert(ctx, it); err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return it, nil
}

// Get returns an active or archived item.
func (s *Items) Get(ctx context.Context, id string) (*model.Item, error) {
	return live(ctx, s.store, id)
}

// List returns active or archived items.
func (s *Items) List(ctx context.Context, archived bool) ([]model.Item, error) {
	state := model.StateActive
	if archived {
		state = model.StateArchived
	}
	return s.store.Items().List(ctx, store.ItemFilter{State: state})
}

// Update applies p. The archive flag cannot be changed here and links are
// left untouched.
func (s *Items) Update(ctx context.Context, id string, p model.Patch) (*model.Item, error) {
	if err := model.ValidatePatch(p); err != nil {
		return nil, err
	}
	var out *model.Item
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		cur, err := live(ctx, tx, id)
		if err != nil {
			return err
		}
		next := p.Apply(*cur)
		if !p.Empty() {
			next.UpdatedAt = s.stamp()
		}
		if err := tx.Items().Update(ctx, &next); err != nil {
			return err
		}
		out = &next
		return nil
	})
	return out, err
}

// Archive moves an active item to the archive.
func (s *Items) Archive(ctx context.Context, id string) (*model.Item, error) {
	return s.transition(ctx, id, func(it *model.Item, now time.Time) error {
		if it.IsArchived {
			return model.NewConflictError("isArchived", "item is already archived")
		}
		it.IsArchived, it.ArchivedAt = true, &now
		return nil
	})
}

// Unarchive returns an archived item to the active list.
func (s *Items) Unarchive(ctx context.Context, id string) (*model.Item, error) {
	return s.transition(ctx, id, func(it *model.Item, _ time.Time) error {
		if !it.IsArchived {
			return model.NewConflictError("isArchived", "item is not archived")
		}
		it.IsArchived, it.ArchivedAt = false, nil
		return nil
	})
}

func (s *Items) transition(ctx context.Context, id string, fn func(*model.Item, time.Time) error) (*model.Item, error) {
	var out *model.Item
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		it, err := live(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.stamp()
		if err := fn(it, now); err != nil {
			return err
		}
		it.UpdatedAt = now
		if err := tx.Items().Update(ctx, it); err != nil {
			return err
		}
		out = it
		return nil
	})
	return out, err
}

// Delete soft-deletes an active or archived item and returns it with the
// deletedAt the purge cutoff is measured from. Its links stay in place on
// both sides so a restore brings them back.
func (s *Items) Delete(ctx context.Context, id string) (*model.Item, error) {
	var out *model.Item
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		it, err := live(ctx, tx, id)
		if err != nil {
			return err
		}
		now := s.stamp()
		it.IsDeleted, it.DeletedAt = true, &now
		it.IsArchived, it.ArchivedAt = false, nil
		it.UpdatedAt = now
		if err := tx.Items().Update(ctx, it); err != nil {
			return err
		}
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Restore brings a trashed item back as active.
func (s *Items) Restore(ctx context.Context, id string) (*model.Item, error) {
	var out *model.Item
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		it, err := tx.Items().Get(ctx, id)
		if err != nil {
			return err
		}
		if !it.IsDeleted {
			return model.NewNotFoundError("trash", id)
		}
		it.IsDeleted, it.DeletedAt = false, nil
		it.IsArchived, it.ArchivedAt = false, nil
		it.UpdatedAt = s.stamp()
		if err := tx.Items().Update(ctx, it); err != nil {
			return err
		}
		out = it
		return nil
	})
	return out, err
}

// Trash lists trashed items as snapshots, newest first.
func (s *Items) Trash(ctx context.Context) ([]model.TrashedItem, error) {
	rows, err := s.store.Items().List(ctx, store.ItemFilter{State: model.StateTrashed})
	if err != nil {
		return nil, err
	}
	out := make([]model.TrashedItem, 0, len(rows))
	for _, it := range rows {
		deletedAt := it.UpdatedAt
		if it.DeletedAt != nil {
			deletedAt = *it.DeletedAt
		}
		out = append(out, model.SnapshotForTrash(it, deletedAt))
	}
	slices.SortStableFunc(out, func(a, b model.TrashedItem) int { return b.DeletedAt.Compare(a.DeletedAt) })
	return out, nil
}

// AddLink links source and target in both directions in one transaction.
func (s *Items) AddLink(ctx context.Context, sourceID, targetID string) (*model.LinkResult, error) {
	return s.relink(ctx, sourceID, targetID, linkgraph.Link)
}

// RemoveLink removes the link in both directions in one transaction.
func (s *Items) RemoveLink(ctx context.Context, sourceID, targetID string) (*model.LinkResult, error) {
	return s.relink(ctx, sourceID, targetID, linkgraph.Unlink)
}

func (s *Items) relink(ctx context.Context, sourceID, targetID string, op func([]model.Item, string, string) (model.LinkResult, error)) (*model.LinkResult, error) {
	if sourceID == targetID {
		return nil, model.NewValidationError("targetId", "an item cannot link to itself")
	}
	var out model.LinkResult
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		src, err := live(ctx, tx, sourceID)
		if err != nil {
			return err
		}
		tgt, err := live(ctx, tx, targetID)
		if err != nil {
			return err
		}
		res, err := op([]model.Item{*src, *tgt}, sourceID, targetID)
		if err != nil {
			return err
		}
		now := s.stamp()
		for _, it := range []*model.Item{&res.Source, &res.Target} {
			it.UpdatedAt = now
			if err := tx.Items().Update(ctx, it); err != nil {
				return err
			}
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PurgeExpired hard-deletes trashed items older than the retention window and
// strips their ids from every remaining link set.
func (s *Items) PurgeExpired(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.retention)
	var purged []string
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		ids, err := tx.Items().PurgeDeletedBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		for _, id := range ids {
			refs, err := tx.Items().LinkedTo(ctx, id)
			if err != nil {
				return err
			}
			for _, ref := range refs {
				ref.LinkedItemIDs = slices.DeleteFunc(ref.LinkedItemIDs, func(x string) bool { return x == id })
				if err := tx.Items().Update(ctx, &ref); err != nil {
					return err
				}
			}
		}
		purged = ids
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(purged) > 0 {
		s.log.Info().Int("count", len(purged)).Time("cutoff", cutoff).Msg("purged expired trash")
	}
	return len(purged), nil
}

// RecordActivity appends e, assigning an id and timestamp when missing.
func (s *Items) RecordActivity(ctx context.Context, e model.ActivityEntry) (*model.ActivityEntry, error) {
	if e.ActionType == "" {
		return nil, model.NewValidationError("actionType", "is required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.stamp()
	}
	if err := s.store.Activities().Append(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Items) ListActivities(ctx context.Context, itemID string, limit int) ([]model.ActivityEntry, error) {
	return s.store.Activities().List(ctx, itemID, limit)
}

func (s *Items) GetPreference(ctx context.Context, key string) (*model.Preference, error) {
	if err := model.ValidateID(key, "key"); err != nil {
		return nil, err
	}
	return s.store.Preferences().Get(ctx, key)
}

func (s *Items) PutPreference(ctx context.Context, key, value string) (*model.Preference, error) {
	if err := model.ValidateID(key, "key"); err != nil {
		return nil, err
	}
	p := &model.Preference{Key: key, Value: value, UpdatedAt: s.stamp()}
	if err := s.store.Preferences().Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// live returns the row for id unless it is missing or trashed.
func live(ctx context.Context, st store.Store, id string) (*model.Item, error) {
	if err := model.ValidateID(id, "id"); err != nil {
		return nil, err
	}
	it, err := st.Items().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.IsDeleted {
		return nil, model.NewNotFoundError("item", id)
	}
	return it, nil
}
