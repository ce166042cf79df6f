package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ananyateklu/second-brain-sub004/internal/errors"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// errRT is an http.RoundTripper that always returns an error (simulates network failure).
type errRT struct{}

func (e *errRT) RoundTrip(*http.Request) (*http.Response, error) { return nil, fmt.Errorf("boom") }

func TestCreateItem_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/items" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var d model.Draft
		_ = json.NewDecoder(r.Body).Decode(&d)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Item{ID: "i1", Title: d.Title, IsIdea: d.IsIdea})
	}))
	defer srv.Close()
	got, err := CreateItem(context.Background(), srv.Client(), srv.URL, model.Draft{Title: "t", IsIdea: true})
	if err != nil || got == nil || got.ID != "i1" || !got.IsIdea {
		t.Fatalf("CreateItem unexpected: got=%+v err=%v", got, err)
	}
}

func TestCreateItem_ValidationBeforeRequest(t *testing.T) {
	t.Parallel()
	_, err := CreateItem(context.Background(), &http.Client{Transport: &errRT{}}, "http://x", model.Draft{Title: " "})
	if !model.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListItems_ArchivedQuery(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("archived") != "true" {
			t.Errorf("archived query = %q", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(model.ListItemsResponse{Items: []model.Item{{ID: "a"}}, Count: 1})
	}))
	defer srv.Close()
	got, err := ListItems(context.Background(), srv.Client(), srv.URL, true)
	if err != nil || len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("ListItems unexpected: got=%+v err=%v", got, err)
	}
}

func TestDeleteItem_NoContent(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/items/i1" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	it, err := DeleteItem(context.Background(), srv.Client(), srv.URL, "i1")
	if err != nil || it != nil {
		t.Fatalf("DeleteItem: item=%+v err=%v", it, err)
	}
}

func TestDeleteItem_ReturnsDeletedRow(t *testing.T) {
	t.Parallel()
	deletedAt := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Item{ID: "i1", IsDeleted: true, DeletedAt: &deletedAt})
	}))
	defer srv.Close()
	it, err := DeleteItem(context.Background(), srv.Client(), srv.URL, "i1")
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if it == nil || it.DeletedAt == nil || !it.DeletedAt.Equal(deletedAt) {
		t.Fatalf("unexpected item %+v", it)
	}
}

func TestTransitions_Paths(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		fn   func(context.Context, HTTPClient, string, string) (*model.Item, error)
		path string
	}{
		{"archive", ArchiveItem, "/api/items/i1/archive"},
		{"unarchive", UnarchiveItem, "/api/items/i1/unarchive"},
		{"restore", RestoreItem, "/api/items/i1/restore"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != tc.path {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				_ = json.NewEncoder(w).Encode(model.Item{ID: "i1"})
			}))
			defer srv.Close()
			got, err := tc.fn(context.Background(), srv.Client(), srv.URL, "i1")
			if err != nil || got.ID != "i1" {
				t.Fatalf("got=%+v err=%v", got, err)
			}
		})
	}
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status        int
		check         func(error) bool
		irrecoverable bool
	}{
		{http.StatusNotFound, model.IsNotFoundError, true},
		{http.StatusBadRequest, model.IsValidationError, true},
		{http.StatusUnprocessableEntity, model.IsValidationError, true},
		{http.StatusConflict, model.IsConflictError, true},
		{http.StatusInternalServerError, func(err error) bool { return errors.StatusCode(err) == 500 }, false},
		{http.StatusTooManyRequests, func(err error) bool { return errors.StatusCode(err) == 429 }, false},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()
			_, err := GetItem(context.Background(), srv.Client(), srv.URL, "i1")
			if err == nil || !tc.check(err) {
				t.Fatalf("status %d: unexpected err %v", tc.status, err)
			}
			if errors.IsIrrecoverable(err) != tc.irrecoverable {
				t.Fatalf("status %d: irrecoverable=%v", tc.status, errors.IsIrrecoverable(err))
			}
		})
	}
}

func TestNetworkErrorIsRecoverable(t *testing.T) {
	t.Parallel()
	_, err := GetItem(context.Background(), &http.Client{Transport: &errRT{}}, "http://x", "i1")
	if err == nil || errors.IsIrrecoverable(err) {
		t.Fatalf("expected recoverable network error, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ListItems(ctx, &http.Client{Transport: &errRT{}}, "http://x", false); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
