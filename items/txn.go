package items

import (
	"context"
	"errors"
	"slices"

	"github.com/ananyateklu/second-brain-sub004/model"
)

type collection int

const (
	none collection = iota
	activeColl
	archivedColl
)

func (c collection) state() model.State {
	if c == archivedColl {
		return model.StateArchived
	}
	return model.StateActive
}

// slot is where an item was, and what it looked like, before a transaction.
type slot struct {
	coll collection
	item model.Item
}

// errNoChange lets an apply step end a transaction early without error and
// without a gateway call.
var errNoChange = errors.New("no change")

// remoteFunc performs the gateway call. On success it returns the commit step,
// which runs under the store lock.
type remoteFunc func(ctx context.Context) (commit func(), err error)

// transact runs one optimistic mutation over the items named by ids:
//
//  1. under the lock, snapshot ids and run apply (which validates, then mutates)
//  2. without the lock, run remote
//  3. under the lock, run commit on success or restore the snapshot on failure
//
// Step 3 is skipped once the store is unmounted. Rollback touches only ids, so
// concurrent mutations of other items survive it.
func (s *Store) transact(ctx context.Context, op string, ids []string, apply func() error, remote remoteFunc) error {
	s.mu.Lock()
	prev := s.snapshotLocked(ids)
	if err := apply(); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	s.mu.Unlock()

	commit, err := remote(ctx)

	if !s.Mounted() {
		s.log.Debug().Str("op", op).Strs("item_ids", ids).Msg("store unmounted, discarding result")
		return model.NewRemoteError(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.restoreLocked(prev)
		s.log.Warn().Err(err).Str("op", op).Strs("item_ids", ids).Msg("rolled back optimistic update")
		return model.NewRemoteError(op, err)
	}
	if commit != nil {
		commit()
	}
	return nil
}

func (s *Store) snapshotLocked(ids []string) map[string]slot {
	prev := make(map[string]slot, len(ids))
	for _, id := range ids {
		coll, idx := s.findLocked(id)
		sl := slot{coll: coll}
		if coll != none {
			sl.item = s.items(coll)[idx].Clone()
		}
		prev[id] = sl
	}
	return prev
}

func (s *Store) restoreLocked(prev map[string]slot) {
	for id, sl := range prev {
		s.removeLocked(id)
		if sl.coll != none {
			s.putLocked(sl.coll, sl.item)
		}
	}
}

// ------------------------- collection primitives -------------------------
// All of these require s.mu to be held.

func (s *Store) items(c collection) []model.Item {
	if c == archivedColl {
		return s.archived
	}
	return s.active
}

func (s *Store) findLocked(id string) (collection, int) {
	if i := slices.IndexFunc(s.active, func(it model.Item) bool { return it.ID == id }); i >= 0 {
		return activeColl, i
	}
	if i := slices.IndexFunc(s.archived, func(it model.Item) bool { return it.ID == id }); i >= 0 {
		return archivedColl, i
	}
	return none, -1
}

func (s *Store) getLocked(id string) (model.Item, collection) {
	coll, idx := s.findLocked(id)
	if coll == none {
		return model.Item{}, none
	}
	return s.items(coll)[idx], coll
}

// putLocked inserts it into c at its sorted position.
func (s *Store) putLocked(c collection, it model.Item) {
	less := Compare
	target := &s.active
	if c == archivedColl {
		less = CompareArchived
		target = &s.archived
	}
	i, _ := slices.BinarySearchFunc(*target, it, less)
	*target = slices.Insert(*target, i, it)
}

func (s *Store) removeLocked(id string) {
	s.active = slices.DeleteFunc(s.active, func(it model.Item) bool { return it.ID == id })
	s.archived = slices.DeleteFunc(s.archived, func(it model.Item) bool { return it.ID == id })
}

// replaceLocked moves it to c, re-sorting as needed.
func (s *Store) replaceLocked(c collection, it model.Item) {
	s.removeLocked(it.ID)
	s.putLocked(c, it)
}

// reconcileLocked adopts the server's copy of an item. A response without a
// link set keeps the local links. Deleted items leave both collections.
func (s *Store) reconcileLocked(server model.Item) model.Item {
	merged := server.Clone()
	if local, coll := s.getLocked(server.ID); coll != none && merged.LinkedItemIDs == nil {
		merged.LinkedItemIDs = slices.Clone(local.LinkedItemIDs)
	}
	s.removeLocked(merged.ID)
	switch merged.State() {
	case model.StateActive:
		s.putLocked(activeColl, merged)
	case model.StateArchived:
		s.putLocked(archivedColl, merged)
	}
	return merged
}

// setLinksLocked overwrites the link set of id in place.
func (s *Store) setLinksLocked(id string, links []string) (model.Item, bool) {
	coll, idx := s.findLocked(id)
	if coll == none {
		return model.Item{}, false
	}
	items := s.items(coll)
	items[idx].LinkedItemIDs = slices.Clone(links)
	return items[idx].Clone(), true
}
