package trash

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ananyateklu/second-brain-sub004/model"
)

type fakeRestorer struct {
	got []model.TrashedItem
	err error
}

func (f *fakeRestorer) Reinstate(_ context.Context, t model.TrashedItem) (*model.Item, error) {
	f.got = append(f.got, t)
	if f.err != nil {
		return nil, f.err
	}
	it := t.Item()
	return &it, nil
}

type fakeSource []model.TrashedItem

func (s fakeSource) ListTrash(context.Context) ([]model.TrashedItem, error) { return s, nil }

var epoch = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestMoveToTrash_NewestFirstAndReplaces(t *testing.T) {
	t.Parallel()
	c := New(DefaultRetention, WithClock(clockAt(epoch)))
	c.MoveToTrash(model.TrashedItem{ID: "a", DeletedAt: epoch.Add(-time.Hour)})
	c.MoveToTrash(model.TrashedItem{ID: "b"}) // stamped with now
	c.MoveToTrash(model.TrashedItem{ID: "a", Title: "again", DeletedAt: epoch.Add(-2 * time.Hour)})

	items := c.Items()
	if len(items) != 2 || items[0].ID != "b" || items[1].Title != "again" {
		t.Fatalf("unexpected trash %+v", items)
	}
	if !items[0].DeletedAt.Equal(epoch) {
		t.Fatalf("deletedAt not stamped: %v", items[0].DeletedAt)
	}
}

func TestDaysRemaining(t *testing.T) {
	t.Parallel()
	cases := []struct {
		age  time.Duration
		want int
	}{
		{0, 30},
		{time.Hour, 30},
		{24 * time.Hour, 29},
		{29*24*time.Hour + time.Minute, 1},
		{30 * 24 * time.Hour, 0},
		{45 * 24 * time.Hour, 0},
	}
	c := New(0, WithClock(clockAt(epoch)))
	for _, tc := range cases {
		item := model.TrashedItem{ID: "x", DeletedAt: epoch.Add(-tc.age)}
		if got := c.DaysRemaining(item); got != tc.want {
			t.Fatalf("age %v: DaysRemaining = %d, want %d", tc.age, got, tc.want)
		}
	}
	if !c.Expired(model.TrashedItem{DeletedAt: epoch.Add(-31 * 24 * time.Hour)}) {
		t.Fatal("expected expired")
	}
}

func TestRestore_CarriesTypeAndRemovesOnSuccess(t *testing.T) {
	t.Parallel()
	r := &fakeRestorer{}
	c := New(DefaultRetention)
	c.Bind(r)
	c.MoveToTrash(model.SnapshotForTrash(model.Item{ID: "i1", Title: "Idea", IsIdea: true}, epoch))

	it, err := c.Restore(context.Background(), "i1")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !it.IsIdea || r.got[0].Type != model.TypeIdea {
		t.Fatalf("type lost on restore: %+v", it)
	}
	if c.Contains("i1") {
		t.Fatal("restored item still in trash")
	}
}

func TestRestore_FailureKeepsItem(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	c := New(DefaultRetention)
	c.Bind(&fakeRestorer{err: boom})
	c.MoveToTrash(model.TrashedItem{ID: "n1", Type: model.TypeNote})

	if _, err := c.Restore(context.Background(), "n1"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if !c.Contains("n1") {
		t.Fatal("item left trash despite failed restore")
	}
}

func TestRestore_Unknown(t *testing.T) {
	t.Parallel()
	c := New(DefaultRetention)
	c.Bind(&fakeRestorer{})
	if _, err := c.Restore(context.Background(), "nope"); !model.IsNotFoundError(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoad_SortsNewestFirst(t *testing.T) {
	t.Parallel()
	c := New(DefaultRetention)
	src := fakeSource{{ID: "old", DeletedAt: epoch}, {ID: "new", DeletedAt: epoch.Add(time.Hour)}}
	if err := c.Load(context.Background(), src); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Items(); got[0].ID != "new" {
		t.Fatalf("unexpected order %+v", got)
	}
	if src[0].ID != "old" {
		t.Fatal("Load mutated the source slice")
	}
}
