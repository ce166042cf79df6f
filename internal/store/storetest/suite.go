// Package storetest is a compliance suite shared by store drivers.
package storetest

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ananyateklu/second-brain-sub004/internal/store"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// Run exercises a store.Store implementation. makeStore may return a shared
// database; the suite only asserts on rows it created.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	newItem := func(title string, idea bool) *model.Item {
		return &model.Item{
			ID: uuid.NewString(), Title: title, Content: "body of " + title, Tags: []string{"t1", "t2"},
			IsIdea: idea, LinkedItemIDs: []string{}, CreatedAt: base, UpdatedAt: base,
		}
	}

	// Items
	a, b := newItem("alpha", false), newItem("beta", true)
	for _, it := range []*model.Item{a, b} {
		if err := s.Items().Insert(ctx, it); err != nil {
			t.Fatalf("Insert %s: %v", it.Title, err)
		}
	}
	got, err := s.Items().Get(ctx, a.ID)
	if err != nil || got.Title != "alpha" || !slices.Equal(got.Tags, a.Tags) || !got.CreatedAt.Equal(base) {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}
	if _, err := s.Items().Get(ctx, uuid.NewString()); !model.IsNotFoundError(err) {
		t.Fatalf("Get missing: expected not found, got %v", err)
	}

	// Update: archive b and link a<->b.
	archivedAt := base.Add(time.Second)
	b.IsArchived, b.ArchivedAt = true, &archivedAt
	b.LinkedItemIDs = []string{a.ID}
	a.LinkedItemIDs = []string{b.ID}
	if err := s.Items().Update(ctx, b); err != nil {
		t.Fatalf("Update b: %v", err)
	}
	if err := s.Items().Update(ctx, a); err != nil {
		t.Fatalf("Update a: %v", err)
	}
	if err := s.Items().Update(ctx, newItem("ghost", false)); !model.IsNotFoundError(err) {
		t.Fatalf("Update missing: expected not found, got %v", err)
	}
	got, _ = s.Items().Get(ctx, b.ID)
	if !got.IsArchived || got.ArchivedAt == nil || !got.ArchivedAt.Equal(archivedAt) || !got.HasLink(a.ID) {
		t.Fatalf("Get after update: %+v", got)
	}

	assertListed := func(state model.State, id string, want bool) {
		t.Helper()
		lst, err := s.Items().List(ctx, store.ItemFilter{State: state})
		if err != nil {
			t.Fatalf("List %s: %v", state, err)
		}
		has := slices.ContainsFunc(lst, func(it model.Item) bool { return it.ID == id })
		if has != want {
			t.Fatalf("List %s contains %s = %v, want %v", state, id, has, want)
		}
	}
	assertListed(model.StateActive, a.ID, true)
	assertListed(model.StateActive, b.ID, false)
	assertListed(model.StateArchived, b.ID, true)

	linked, err := s.Items().LinkedTo(ctx, a.ID)
	if err != nil || len(linked) != 1 || linked[0].ID != b.ID {
		t.Fatalf("LinkedTo: got=%v err=%v", linked, err)
	}

	// Soft delete a, then purge it.
	deletedAt := base.Add(-48 * time.Hour)
	a.IsDeleted, a.DeletedAt = true, &deletedAt
	if err := s.Items().Update(ctx, a); err != nil {
		t.Fatalf("Update delete: %v", err)
	}
	assertListed(model.StateTrashed, a.ID, true)
	assertListed(model.StateActive, a.ID, false)

	purged, err := s.Items().PurgeDeletedBefore(ctx, base.Add(-24*time.Hour))
	if err != nil || !slices.Contains(purged, a.ID) || slices.Contains(purged, b.ID) {
		t.Fatalf("PurgeDeletedBefore: got=%v err=%v", purged, err)
	}
	if _, err := s.Items().Get(ctx, a.ID); !model.IsNotFoundError(err) {
		t.Fatalf("Get after purge: expected not found, got %v", err)
	}

	// Transactions
	c := newItem("gamma", false)
	boom := errors.New("boom")
	err = s.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Items().Insert(ctx, c); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx rollback: err=%v", err)
	}
	if _, err := s.Items().Get(ctx, c.ID); !model.IsNotFoundError(err) {
		t.Fatalf("rolled back insert is visible: %v", err)
	}
	err = s.WithTx(ctx, func(tx store.Store) error {
		return tx.WithTx(ctx, func(inner store.Store) error { return inner.Items().Insert(ctx, c) })
	})
	if err != nil {
		t.Fatalf("WithTx commit: %v", err)
	}
	if _, err := s.Items().Get(ctx, c.ID); err != nil {
		t.Fatalf("committed insert missing: %v", err)
	}

	// Activities
	for i, action := range []model.ActionType{model.ActionCreate, model.ActionEdit, model.ActionArchive} {
		e := &model.ActivityEntry{
			ID: uuid.NewString(), ActionType: action, ItemType: model.TypeNote, ItemID: c.ID, ItemTitle: c.Title,
			Description: string(action), Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if action == model.ActionEdit {
			e.Metadata = map[string]any{"field": "title"}
		}
		if err := s.Activities().Append(ctx, e); err != nil {
			t.Fatalf("Append %s: %v", action, err)
		}
	}
	acts, err := s.Activities().List(ctx, c.ID, 2)
	if err != nil || len(acts) != 2 {
		t.Fatalf("List activities: n=%d err=%v", len(acts), err)
	}
	if acts[0].ActionType != model.ActionArchive || acts[1].ActionType != model.ActionEdit {
		t.Fatalf("activities not newest first: %v, %v", acts[0].ActionType, acts[1].ActionType)
	}
	if acts[1].Metadata["field"] != "title" {
		t.Fatalf("metadata lost: %v", acts[1].Metadata)
	}

	// Preferences
	key := "pref-" + uuid.NewString()
	if _, err := s.Preferences().Get(ctx, key); !model.IsNotFoundError(err) {
		t.Fatalf("Get missing preference: %v", err)
	}
	for _, v := range []string{"dark", "light"} {
		if err := s.Preferences().Put(ctx, &model.Preference{Key: key, Value: v, UpdatedAt: base}); err != nil {
			t.Fatalf("Put preference: %v", err)
		}
	}
	p, err := s.Preferences().Get(ctx, key)
	if err != nil || p.Value != "light" {
		t.Fatalf("Get preference: got=%+v err=%v", p, err)
	}
}
