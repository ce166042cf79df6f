package activity

import (
	"fmt"

	"github.com/ananyateklu/second-brain-sub004/model"
)

func entryFor(action model.ActionType, it model.Item, description string, meta map[string]any) model.ActivityEntry {
	return model.ActivityEntry{
		ActionType:  action,
		ItemType:    it.Type(),
		ItemID:      it.ID,
		ItemTitle:   it.Title,
		Description: description,
		Metadata:    meta,
	}
}

// Created describes a newly created item.
func Created(it model.Item) model.ActivityEntry {
	return entryFor(model.ActionCreate, it, fmt.Sprintf("Created %s %q", it.Type(), it.Title), map[string]any{
		"tags":   it.Tags,
		"isIdea": it.IsIdea,
	})
}

// Edited describes a content edit; diff lists the changed fields.
func Edited(it model.Item, diff map[string]model.Change) model.ActivityEntry {
	changes := make(map[string]any, len(diff))
	for f, c := range diff {
		changes[f] = c
	}
	return entryFor(model.ActionEdit, it, fmt.Sprintf("Edited %s %q", it.Type(), it.Title), map[string]any{
		"changes": changes,
	})
}

// Toggled describes a pin or favorite flip.
func Toggled(it model.Item, field string, value bool) model.ActivityEntry {
	verb := map[string][2]string{
		"isPinned":   {"Unpinned", "Pinned"},
		"isFavorite": {"Removed from favorites", "Added to favorites"},
	}[field]
	idx := 0
	if value {
		idx = 1
	}
	desc := verb[idx]
	if desc == "" {
		desc = "Updated " + field
	}
	return entryFor(model.ActionUpdate, it, fmt.Sprintf("%s %s %q", desc, it.Type(), it.Title), map[string]any{
		field: value,
	})
}

// Archived describes an archive.
func Archived(it model.Item) model.ActivityEntry {
	return entryFor(model.ActionArchive, it, fmt.Sprintf("Archived %s %q", it.Type(), it.Title), nil)
}

// Restored describes an item returning to the active collection from archive or trash.
func Restored(it model.Item, from model.State) model.ActivityEntry {
	return entryFor(model.ActionRestore, it, fmt.Sprintf("Restored %s %q from %s", it.Type(), it.Title, from), map[string]any{
		"from": string(from),
	})
}

// Deleted describes a move to trash.
func Deleted(it model.Item) model.ActivityEntry {
	return entryFor(model.ActionDelete, it, fmt.Sprintf("Moved %s %q to trash", it.Type(), it.Title), map[string]any{
		"wasArchived": it.IsArchived,
	})
}

// Linked describes a new link; the entry is filed under source.
func Linked(source, target model.Item) model.ActivityEntry {
	return entryFor(model.ActionLink, source, fmt.Sprintf("Linked %q to %q", source.Title, target.Title), map[string]any{
		"targetId":    target.ID,
		"targetType":  string(target.Type()),
		"targetTitle": target.Title,
	})
}

// Unlinked describes a removed link.
func Unlinked(source, target model.Item) model.ActivityEntry {
	return entryFor(model.ActionUnlink, source, fmt.Sprintf("Unlinked %q from %q", source.Title, target.Title), map[string]any{
		"targetId":    target.ID,
		"targetType":  string(target.Type()),
		"targetTitle": target.Title,
	})
}

// BulkFailure is one ID a bulk operation could not process.
type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// RestoredMultiple summarises a bulk restore. Counts cover successes only;
// failures are listed separately.
func RestoredMultiple(notes, ideas int, failed []BulkFailure) model.ActivityEntry {
	desc := fmt.Sprintf("Restored %d notes and %d ideas", notes, ideas)
	if len(failed) > 0 {
		desc += fmt.Sprintf(" (%d failed)", len(failed))
	}
	return model.ActivityEntry{
		ActionType:  model.ActionRestoreMultiple,
		Description: desc,
		Metadata: map[string]any{
			"notes":    notes,
			"ideas":    ideas,
			"restored": notes + ideas,
			"failures": failed,
		},
	}
}
