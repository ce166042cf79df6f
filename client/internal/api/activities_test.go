package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ananyateklu/second-brain-sub004/model"
)

func TestRecordActivity_Accepted(t *testing.T) {
	t.Parallel()
	got := make(chan model.ActivityEntry, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e model.ActivityEntry
		_ = json.NewDecoder(r.Body).Decode(&e)
		got <- e
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()
	e := model.ActivityEntry{ID: "e1", ActionType: model.ActionArchive, ItemID: "i1", Timestamp: time.Now().UTC()}
	if err := RecordActivity(context.Background(), srv.Client(), srv.URL, e); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if seen := <-got; seen.ID != "e1" || seen.ActionType != model.ActionArchive {
		t.Fatalf("server saw %+v", seen)
	}
}

func TestListActivities_Query(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("itemId") != "i1" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"activities":[{"id":"e1","actionType":"create"}]}`))
	}))
	defer srv.Close()
	got, err := ListActivities(context.Background(), srv.Client(), srv.URL, "i1", 5)
	if err != nil || len(got) != 1 || got[0].ActionType != model.ActionCreate {
		t.Fatalf("got=%+v err=%v", got, err)
	}
}

func TestListTrash(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.ListTrashResponse{
			Items: []model.TrashedItem{{ID: "t1", Type: model.TypeNote}}, Count: 1, RetentionDays: 30,
		})
	}))
	defer srv.Close()
	got, err := ListTrash(context.Background(), srv.Client(), srv.URL)
	if err != nil || got.Count != 1 || got.RetentionDays != 30 {
		t.Fatalf("got=%+v err=%v", got, err)
	}
}
