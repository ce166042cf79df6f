package linkgraph

import (
	"slices"

	"github.com/ananyateklu/second-brain-sub004/model"
)

// Link adds target to source's link set and source to target's. Both IDs must
// be present in items. Linking an already linked pair returns the pair unchanged.
func Link(items []model.Item, sourceID, targetID string) (model.LinkResult, error) {
	src, tgt, err := endpoints(items, sourceID, targetID)
	if err != nil {
		return model.LinkResult{}, err
	}
	src.LinkedItemIDs = addID(src.LinkedItemIDs, targetID)
	tgt.LinkedItemIDs = addID(tgt.LinkedItemIDs, sourceID)
	return model.LinkResult{Source: src, Target: tgt}, nil
}

// Unlink removes the pair from each other's link set. Idempotent.
func Unlink(items []model.Item, sourceID, targetID string) (model.LinkResult, error) {
	src, tgt, err := endpoints(items, sourceID, targetID)
	if err != nil {
		return model.LinkResult{}, err
	}
	src.LinkedItemIDs = removeID(src.LinkedItemIDs, targetID)
	tgt.LinkedItemIDs = removeID(tgt.LinkedItemIDs, sourceID)
	return model.LinkResult{Source: src, Target: tgt}, nil
}

// IsLinked reports whether a and b reference each other in both directions.
func IsLinked(a, b model.Item) bool {
	return a.HasLink(b.ID) && b.HasLink(a.ID)
}

// LiveLinks drops link IDs for which exists returns false. Stale IDs are left
// in storage and filtered here, at read time.
func LiveLinks(it model.Item, exists func(id string) bool) []string {
	out := make([]string, 0, len(it.LinkedItemIDs))
	for _, id := range it.LinkedItemIDs {
		if exists(id) {
			out = append(out, id)
		}
	}
	return out
}

// FromItems builds the RelationLink adjacency from each item's link set. Links
// pointing outside items are ignored.
func FromItems(items []model.Item) *Adjacency {
	present := make(map[string]struct{}, len(items))
	for _, it := range items {
		present[it.ID] = struct{}{}
	}
	g := NewAdjacency()
	for _, it := range items {
		for _, id := range it.LinkedItemIDs {
			if _, ok := present[id]; ok && id != it.ID {
				g.addDirected(RelationLink, it.ID, id)
			}
		}
	}
	return g
}

// CheckSymmetry returns every one-directional link among items.
func CheckSymmetry(items []model.Item) []Violation {
	return FromItems(items).Verify()
}

func endpoints(items []model.Item, sourceID, targetID string) (model.Item, model.Item, error) {
	if sourceID == targetID {
		return model.Item{}, model.Item{}, model.NewValidationError("targetId", "an item cannot link to itself")
	}
	var src, tgt *model.Item
	for i := range items {
		switch items[i].ID {
		case sourceID:
			src = &items[i]
		case targetID:
			tgt = &items[i]
		}
	}
	if src == nil {
		return model.Item{}, model.Item{}, model.NewNotFoundError("item", sourceID)
	}
	if tgt == nil {
		return model.Item{}, model.Item{}, model.NewNotFoundError("item", targetID)
	}
	return src.Clone(), tgt.Clone(), nil
}

func addID(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(x string) bool { return x == id })
}
