package model

import (
	"slices"
	"strings"
	"time"
)

// ItemType distinguishes notes from ideas. Both share the same lifecycle.
type ItemType string

const (
	TypeNote ItemType = "note"
	TypeIdea ItemType = "idea"
)

// Item is a note or idea. IsArchived and IsDeleted are never both true.
type Item struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Tags          []string   `json:"tags"`
	IsIdea        bool       `json:"isIdea"`
	IsPinned      bool       `json:"isPinned"`
	IsFavorite    bool       `json:"isFavorite"`
	IsArchived    bool       `json:"isArchived"`
	IsDeleted     bool       `json:"isDeleted"`
	LinkedItemIDs []string   `json:"linkedItemIds"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	ArchivedAt    *time.Time `json:"archivedAt,omitempty"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
}

// Type returns the item's kind.
func (i Item) Type() ItemType {
	if i.IsIdea {
		return TypeIdea
	}
	return TypeNote
}

// State names the lifecycle collection the item belongs to.
func (i Item) State() State {
	switch {
	case i.IsDeleted:
		return StateTrashed
	case i.IsArchived:
		return StateArchived
	default:
		return StateActive
	}
}

// HasTag matches tags with set semantics.
func (i Item) HasTag(tag string) bool {
	return slices.Contains(i.Tags, tag)
}

// HasLink reports whether id is in the item's link set.
func (i Item) HasLink(id string) bool {
	return slices.Contains(i.LinkedItemIDs, id)
}

// Clone returns a deep copy; the result shares no slices or pointers with i.
func (i Item) Clone() Item {
	out := i
	out.Tags = slices.Clone(i.Tags)
	out.LinkedItemIDs = slices.Clone(i.LinkedItemIDs)
	if i.ArchivedAt != nil {
		t := *i.ArchivedAt
		out.ArchivedAt = &t
	}
	if i.DeletedAt != nil {
		t := *i.DeletedAt
		out.DeletedAt = &t
	}
	return out
}

// State is a lifecycle state.
type State string

const (
	StateActive   State = "active"
	StateArchived State = "archived"
	StateTrashed  State = "trashed"
)

// Draft is the input to create. The server assigns the ID.
type Draft struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	IsIdea     bool     `json:"isIdea"`
	IsPinned   bool     `json:"isPinned"`
	IsFavorite bool     `json:"isFavorite"`
}

// Normalize trims the title and de-duplicates tags.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Tags = NormalizeTags(d.Tags)
	return d
}

// Patch is a partial update. IsArchived is present only so it can be rejected:
// archiving goes through its own operation.
type Patch struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	IsIdea     *bool     `json:"isIdea,omitempty"`
	IsPinned   *bool     `json:"isPinned,omitempty"`
	IsFavorite *bool     `json:"isFavorite,omitempty"`
	IsArchived *bool     `json:"isArchived,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.IsIdea == nil &&
		p.IsPinned == nil && p.IsFavorite == nil && p.IsArchived == nil
}

// Apply returns it with the patch fields set. Links, lifecycle flags and
// timestamps are left untouched.
func (p Patch) Apply(it Item) Item {
	out := it.Clone()
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.Tags != nil {
		out.Tags = NormalizeTags(*p.Tags)
	}
	if p.IsIdea != nil {
		out.IsIdea = *p.IsIdea
	}
	if p.IsPinned != nil {
		out.IsPinned = *p.IsPinned
	}
	if p.IsFavorite != nil {
		out.IsFavorite = *p.IsFavorite
	}
	return out
}

// Change is one entry of a Diff.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Diff lists the fields whose value would change if the patch were applied to before.
func (p Patch) Diff(before Item) map[string]Change {
	after := p.Apply(before)
	diff := map[string]Change{}
	if before.Title != after.Title {
		diff["title"] = Change{From: before.Title, To: after.Title}
	}
	if before.Content != after.Content {
		diff["content"] = Change{From: before.Content, To: after.Content}
	}
	if !slices.Equal(before.Tags, after.Tags) {
		diff["tags"] = Change{From: before.Tags, To: after.Tags}
	}
	if before.IsIdea != after.IsIdea {
		diff["isIdea"] = Change{From: before.IsIdea, To: after.IsIdea}
	}
	if before.IsPinned != after.IsPinned {
		diff["isPinned"] = Change{From: before.IsPinned, To: after.IsPinned}
	}
	if before.IsFavorite != after.IsFavorite {
		diff["isFavorite"] = Change{From: before.IsFavorite, To: after.IsFavorite}
	}
	return diff
}

// NormalizeTags trims tags, drops empties and keeps the first occurrence of each.
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// LinkResult carries both endpoints after a link change.
type LinkResult struct {
	Source Item `json:"source"`
	Target Item `json:"target"`
}

// ListItemsResponse is the list envelope returned by the item service.
type ListItemsResponse struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
}

// Preference is a single key/value user preference.
type Preference struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
