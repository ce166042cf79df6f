package items

import (
	"cmp"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// Compare is the single ordering for the active collection: pinned items
// first, then most recently updated, then most recently created. The ID breaks
// remaining ties so the order is total.
func Compare(a, b model.Item) int {
	if a.IsPinned != b.IsPinned {
		if a.IsPinned {
			return -1
		}
		return 1
	}
	if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// CompareArchived orders the archive by most recently archived, falling back
// to Compare.
func CompareArchived(a, b model.Item) int {
	switch {
	case a.ArchivedAt != nil && b.ArchivedAt != nil:
		if c := b.ArchivedAt.Compare(*a.ArchivedAt); c != 0 {
			return c
		}
	case a.ArchivedAt != nil:
		return -1
	case b.ArchivedAt != nil:
		return 1
	}
	return Compare(a, b)
}
