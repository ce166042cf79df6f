package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/ananyateklu/second-brain-sub004/activity"
	"github.com/ananyateklu/second-brain-sub004/model"
)

var errEmptyResponse = errors.New("empty response from item service")

// Create persists a new item and inserts the server's copy. Nothing is shown
// before the server assigns an ID.
func (s *Store) Create(ctx context.Context, d model.Draft) (*model.Item, error) {
	d = d.Normalize()
	if err := model.ValidateDraft(d); err != nil {
		return nil, err
	}
	created, err := s.gw.CreateItem(ctx, d)
	if err == nil && created == nil {
		err = errEmptyResponse
	}
	if err != nil {
		return nil, model.NewRemoteError("create", err)
	}

	it := created.Clone()
	if !s.Mounted() {
		return &it, nil
	}
	s.mu.Lock()
	it = s.reconcileLocked(it)
	s.mu.Unlock()

	s.record(ctx, activity.Created(it))
	return &it, nil
}

// Update applies p to the item. Archive state cannot be changed here and the
// link set is left as is.
func (s *Store) Update(ctx context.Context, id string, p model.Patch) (*model.Item, error) {
	if err := model.ValidatePatch(p); err != nil {
		return nil, err
	}
	return s.patch(ctx, "update", id, p, func(before, after model.Item) model.ActivityEntry {
		return activity.Edited(after, p.Diff(before))
	})
}

// TogglePin flips isPinned.
func (s *Store) TogglePin(ctx context.Context, id string) (*model.Item, error) {
	return s.toggle(ctx, id, "isPinned", func(it model.Item) model.Patch {
		v := !it.IsPinned
		return model.Patch{IsPinned: &v}
	})
}

// ToggleFavorite flips isFavorite.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (*model.Item, error) {
	return s.toggle(ctx, id, "isFavorite", func(it model.Item) model.Patch {
		v := !it.IsFavorite
		return model.Patch{IsFavorite: &v}
	})
}

func (s *Store) toggle(ctx context.Context, id, field string, flip func(model.Item) model.Patch) (*model.Item, error) {
	cur, _, ok := s.Get(id)
	if !ok {
		return nil, model.NewNotFoundError("item", id)
	}
	p := flip(cur)
	return s.patch(ctx, "toggle "+field, id, p, func(_, after model.Item) model.ActivityEntry {
		value := after.IsPinned
		if field == "isFavorite" {
			value = after.IsFavorite
		}
		return activity.Toggled(after, field, value)
	})
}

func (s *Store) patch(ctx context.Context, op, id string, p model.Patch, entry func(before, after model.Item) model.ActivityEntry) (*model.Item, error) {
	var before, result model.Item
	err := s.transact(ctx, op, []string{id},
		func() error {
			cur, coll := s.getLocked(id)
			if coll == none {
				return model.NewNotFoundError("item", id)
			}
			before = cur.Clone()
			if p.Empty() {
				result = before
				return errNoChange
			}
			next := p.Apply(before)
			next.UpdatedAt = s.now().UTC()
			s.replaceLocked(coll, next)
			result = next
			return nil
		},
		func(ctx context.Context) (func(), error) {
			updated, err := s.gw.UpdateItem(ctx, id, p)
			if err == nil && updated == nil {
				err = errEmptyResponse
			}
			if err != nil {
				return nil, err
			}
			return func() { result = s.reconcileLocked(*updated) }, nil
		})
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		s.record(ctx, entry(before, result))
	}
	return &result, nil
}

// Archive moves an active item to the archive.
func (s *Store) Archive(ctx context.Context, id string) (*model.Item, error) {
	var result model.Item
	err := s.transact(ctx, "archive", []string{id},
		func() error {
			cur, coll := s.getLocked(id)
			switch coll {
			case none:
				return model.NewNotFoundError("item", id)
			case archivedColl:
				return model.NewValidationError("isArchived", fmt.Sprintf("item %s is already archived", id))
			}
			next := cur.Clone()
			now := s.now().UTC()
			next.IsArchived = true
			next.ArchivedAt = &now
			s.replaceLocked(archivedColl, next)
			result = next
			return nil
		},
		func(ctx context.Context) (func(), error) {
			srv, err := s.gw.ArchiveItem(ctx, id)
			if err == nil && srv == nil {
				err = errEmptyResponse
			}
			if err != nil {
				return nil, err
			}
			return func() { result = s.reconcileLocked(*srv) }, nil
		})
	if err != nil {
		return nil, err
	}
	s.record(ctx, activity.Archived(result))
	return &result, nil
}

// Unarchive returns an archived item to the active collection.
func (s *Store) Unarchive(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.unarchive(ctx, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, activity.Restored(*it, model.StateArchived))
	return it, nil
}

func (s *Store) unarchive(ctx context.Context, id string) (*model.Item, error) {
	var result model.Item
	err := s.transact(ctx, "unarchive", []string{id},
		func() error {
			cur, coll := s.getLocked(id)
			switch coll {
			case none:
				return model.NewNotFoundError("item", id)
			case activeColl:
				return model.NewValidationError("isArchived", fmt.Sprintf("item %s is not archived", id))
			}
			next := cur.Clone()
			next.IsArchived = false
			next.ArchivedAt = nil
			s.replaceLocked(activeColl, next)
			result = next
			return nil
		},
		func(ctx context.Context) (func(), error) {
			srv, err := s.gw.UnarchiveItem(ctx, id)
			if err == nil && srv == nil {
				err = errEmptyResponse
			}
			if err != nil {
				return nil, err
			}
			return func() { result = s.reconcileLocked(*srv) }, nil
		})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete soft-deletes an active or archived item and hands a snapshot to the
// trash. The snapshot carries the service's deletedAt when the response has
// one, so days remaining match the purge cutoff. Links on other items that
// point at it are left to be filtered on read.
func (s *Store) Delete(ctx context.Context, id string) error {
	var before model.Item
	err := s.transact(ctx, "delete", []string{id},
		func() error {
			cur, coll := s.getLocked(id)
			if coll == none {
				return model.NewNotFoundError("item", id)
			}
			before = cur.Clone()
			s.removeLocked(id)
			return nil
		},
		func(ctx context.Context) (func(), error) {
			srv, err := s.gw.DeleteItem(ctx, id)
			if err != nil {
				return nil, err
			}
			deletedAt := s.now().UTC()
			if srv != nil && srv.DeletedAt != nil {
				deletedAt = srv.DeletedAt.UTC()
			}
			return func() {
				s.trash.MoveToTrash(model.SnapshotForTrash(before, deletedAt))
			}, nil
		})
	if err != nil {
		return err
	}
	s.record(ctx, activity.Deleted(before))
	return nil
}

// Reinstate restores a trashed item into the active collection. The snapshot's
// type decides whether it comes back as a note or an idea.
func (s *Store) Reinstate(ctx context.Context, t model.TrashedItem) (*model.Item, error) {
	if err := model.ValidateID(t.ID, "id"); err != nil {
		return nil, err
	}
	var result model.Item
	err := s.transact(ctx, "restore", []string{t.ID},
		func() error {
			if _, coll := s.getLocked(t.ID); coll != none {
				return model.NewValidationError("id", fmt.Sprintf("item %s is not in the trash", t.ID))
			}
			it := t.Item()
			it.UpdatedAt = s.now().UTC()
			s.putLocked(activeColl, it)
			result = it
			return nil
		},
		func(ctx context.Context) (func(), error) {
			srv, err := s.gw.RestoreItem(ctx, t.ID)
			if err == nil && srv == nil {
				err = errEmptyResponse
			}
			if err != nil {
				return nil, err
			}
			return func() { result = s.reconcileLocked(*srv) }, nil
		})
	if err != nil {
		return nil, err
	}
	s.record(ctx, activity.Restored(result, model.StateTrashed))
	return &result, nil
}
