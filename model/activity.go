package model

import "time"

// ActionType names the mutation an activity entry describes.
type ActionType string

const (
	ActionCreate          ActionType = "create"
	ActionEdit            ActionType = "edit"
	ActionUpdate          ActionType = "update"
	ActionDelete          ActionType = "delete"
	ActionArchive         ActionType = "archive"
	ActionRestore         ActionType = "restore"
	ActionLink            ActionType = "link"
	ActionUnlink          ActionType = "unlink"
	ActionRestoreMultiple ActionType = "restore_multiple"
)

// ActivityEntry is an append-only audit record. The client writes these and
// never reads them back.
type ActivityEntry struct {
	ID          string         `json:"id,omitempty"`
	ActionType  ActionType     `json:"actionType"`
	ItemType    ItemType       `json:"itemType"`
	ItemID      string         `json:"itemId"`
	ItemTitle   string         `json:"itemTitle"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}
