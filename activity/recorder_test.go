package activity

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cerrors "github.com/ananyateklu/second-brain-sub004/internal/errors"
	"github.com/ananyateklu/second-brain-sub004/internal/shardqueue"
	"github.com/ananyateklu/second-brain-sub004/model"
)

type memSink struct {
	mu      sync.Mutex
	entries []model.ActivityEntry
	fail    error
	calls   int32
}

func (s *memSink) RecordActivity(_ context.Context, e model.ActivityEntry) error {
	atomic.AddInt32(&s.calls, 1)
	if s.fail != nil {
		return s.fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *memSink) snapshot() []model.ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ActivityEntry(nil), s.entries...)
}

func flush(t *testing.T, r *Recorder, key string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Flush(ctx, key); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestRecorder_StampsAndDeliversInOrder(t *testing.T) {
	t.Parallel()
	sink := &memSink{}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRecorder(sink, WithClock(func() time.Time { return fixed }))
	defer r.Close()

	it := model.Item{ID: "n1", Title: "Note"}
	r.Record(context.Background(), Created(it))
	r.Record(context.Background(), Archived(it))
	flush(t, r, "n1")

	got := sink.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ActionType != model.ActionCreate || got[1].ActionType != model.ActionArchive {
		t.Fatalf("entries out of order: %+v", got)
	}
	if got[0].ID == "" || !got[0].Timestamp.Equal(fixed) {
		t.Fatalf("entry not stamped: %+v", got[0])
	}
}

func TestRecorder_CancelledCallerContextStillDelivers(t *testing.T) {
	t.Parallel()
	sink := &memSink{}
	r := NewRecorder(sink)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r.Record(ctx, Deleted(model.Item{ID: "x", Title: "X"}))
	cancel()
	flush(t, r, "x")

	if len(sink.snapshot()) != 1 {
		t.Fatal("entry lost after caller context was cancelled")
	}
}

func TestRecorder_FailuresAreSwallowed(t *testing.T) {
	t.Parallel()
	sink := &memSink{fail: cerrors.NewHTTPError(http.StatusBadRequest, "nope", "record activity")}
	r := NewRecorder(sink, WithExecutorConfig(shardqueue.Config{Shards: 1, MaxAttempts: 3, BaseBackoff: time.Millisecond}))
	defer r.Close()

	r.Record(context.Background(), Created(model.Item{ID: "a", Title: "A"}))
	flush(t, r, "a")

	if got := atomic.LoadInt32(&sink.calls); got != 1 {
		t.Fatalf("irrecoverable write should not retry, calls=%d", got)
	}
}

func TestRecorder_RetriesTransientFailures(t *testing.T) {
	t.Parallel()
	sink := &memSink{fail: errors.New("connection reset")}
	r := NewRecorder(sink, WithExecutorConfig(shardqueue.Config{Shards: 1, MaxAttempts: 3, BaseBackoff: time.Millisecond}))
	defer r.Close()

	r.Record(context.Background(), Created(model.Item{ID: "a", Title: "A"}))
	flush(t, r, "a")

	if got := atomic.LoadInt32(&sink.calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

// overlapExecutor fails the test when two Submit calls for one key overlap.
type overlapExecutor struct {
	t        *testing.T
	inflight sync.Map // key -> *int32
	mu       sync.Mutex
	keys     []string
}

func (e *overlapExecutor) Submit(_ context.Context, key string, _ shardqueue.Job) error {
	v, _ := e.inflight.LoadOrStore(key, new(int32))
	n := v.(*int32)
	if atomic.AddInt32(n, 1) > 1 {
		e.t.Errorf("concurrent Submit for key %q", key)
	}
	time.Sleep(time.Millisecond)
	e.mu.Lock()
	e.keys = append(e.keys, key)
	e.mu.Unlock()
	atomic.AddInt32(n, -1)
	return nil
}

func (e *overlapExecutor) Barrier(context.Context, string) error { return nil }
func (e *overlapExecutor) Stop()                                 {}

func TestRecorder_SerialisesSubmitsForOneItem(t *testing.T) {
	t.Parallel()
	exec := &overlapExecutor{t: t}
	r := NewRecorder(&memSink{})
	r.exec.Stop()
	r.exec = exec

	it := model.Item{ID: "shared"}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(context.Background(), Toggled(it, "isPinned", i%2 == 0))
		}()
	}
	wg.Wait()

	exec.mu.Lock()
	defer exec.mu.Unlock()
	if len(exec.keys) != 16 {
		t.Fatalf("submitted %d entries, want 16", len(exec.keys))
	}
}

func TestRecorder_RecordAfterCloseDoesNotPanic(t *testing.T) {
	t.Parallel()
	r := NewRecorder(&memSink{})
	_ = r.Close()
	_ = r.Close()
	r.Record(context.Background(), Created(model.Item{ID: "late"}))
}

func TestEntryBuilders(t *testing.T) {
	t.Parallel()
	idea := model.Item{ID: "i1", Title: "Spark", IsIdea: true}
	note := model.Item{ID: "n1", Title: "Doc"}

	if e := Toggled(idea, "isPinned", true); e.ActionType != model.ActionUpdate || e.ItemType != model.TypeIdea || e.Metadata["isPinned"] != true {
		t.Fatalf("unexpected toggle entry %+v", e)
	}
	if e := Linked(note, idea); e.ItemID != "n1" || e.Metadata["targetId"] != "i1" {
		t.Fatalf("unexpected link entry %+v", e)
	}
	if e := Restored(note, model.StateTrashed); e.Metadata["from"] != "trashed" {
		t.Fatalf("unexpected restore entry %+v", e)
	}
	e := RestoredMultiple(2, 1, []BulkFailure{{ID: "x", Error: "boom"}})
	if e.ActionType != model.ActionRestoreMultiple || e.Metadata["restored"] != 3 {
		t.Fatalf("unexpected bulk entry %+v", e)
	}
	if e.Description != "Restored 2 notes and 1 ideas (1 failed)" {
		t.Fatalf("unexpected description %q", e.Description)
	}
}
