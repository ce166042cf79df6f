package model

import (
	"time"
)

// TrashedItem is the snapshot kept while an item sits in the trash.
type TrashedItem struct {
	ID        string         `json:"id"`
	Type      ItemType       `json:"type"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	DeletedAt time.Time      `json:"deletedAt"`
}

// ListTrashResponse is the trash envelope returned by the item service.
type ListTrashResponse struct {
	Items         []TrashedItem `json:"items"`
	Count         int           `json:"count"`
	RetentionDays int           `json:"retentionDays"`
}

// Metadata keys carried by a TrashedItem.
const (
	MetaTags          = "tags"
	MetaLinkedItemIDs = "linkedItemIds"
	MetaIsPinned      = "isPinned"
	MetaIsFavorite    = "isFavorite"
	MetaWasArchived   = "wasArchived"
	MetaCreatedAt     = "createdAt"
)

// SnapshotForTrash captures it as a trash entry deleted at deletedAt.
func SnapshotForTrash(it Item, deletedAt time.Time) TrashedItem {
	return TrashedItem{
		ID:      it.ID,
		Type:    it.Type(),
		Title:   it.Title,
		Content: it.Content,
		Metadata: map[string]any{
			MetaTags:          append([]string(nil), it.Tags...),
			MetaLinkedItemIDs: append([]string(nil), it.LinkedItemIDs...),
			MetaIsPinned:      it.IsPinned,
			MetaIsFavorite:    it.IsFavorite,
			MetaWasArchived:   it.IsArchived,
			MetaCreatedAt:     it.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
		DeletedAt: deletedAt,
	}
}

// Item rebuilds an active item from the snapshot. Metadata decoded from JSON
// arrives as []any and strings, so both shapes are accepted.
func (t TrashedItem) Item() Item {
	it := Item{
		ID:            t.ID,
		Title:         t.Title,
		Content:       t.Content,
		IsIdea:        t.Type == TypeIdea,
		Tags:          metaStrings(t.Metadata[MetaTags]),
		LinkedItemIDs: metaStrings(t.Metadata[MetaLinkedItemIDs]),
		IsPinned:      metaBool(t.Metadata[MetaIsPinned]),
		IsFavorite:    metaBool(t.Metadata[MetaIsFavorite]),
	}
	if s, ok := t.Metadata[MetaCreatedAt].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			it.CreatedAt = ts
		}
	}
	return it
}

func metaStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case []any:
		out := make([]string, 0, len(vv))
		for _, x := range vv {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func metaBool(v any) bool {
	b, _ := v.(bool)
	return b
}
