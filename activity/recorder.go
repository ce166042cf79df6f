// Package activity ships audit entries to the item service without blocking
// the mutation that produced them.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ananyateklu/second-brain-sub004/internal/shardqueue"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// Sink persists one activity entry.
type Sink interface {
	RecordActivity(ctx context.Context, entry model.ActivityEntry) error
}

type executor interface {
	Submit(ctx context.Context, key string, job shardqueue.Job) error
	Barrier(ctx context.Context, key string) error
	Stop()
}

// Recorder is fire-and-forget: Record never returns an error and never blocks
// on the network. Failures are logged and dropped.
type Recorder struct {
	sink Sink
	exec executor
	log  zerolog.Logger
	now  func() time.Time

	// submitMu serialises Submit; the executor keeps FIFO per key only when
	// submissions for a key do not overlap.
	submitMu sync.Mutex
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used for dropped entries.
func WithLogger(l zerolog.Logger) Option { return func(r *Recorder) { r.log = l } }

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option { return func(r *Recorder) { r.now = now } }

// WithExecutorConfig tunes the background executor.
func WithExecutorConfig(cfg shardqueue.Config) Option {
	return func(r *Recorder) { r.exec = r.newExecutor(cfg) }
}

// NewRecorder builds a recorder that writes through sink.
func NewRecorder(sink Sink, opts ...Option) *Recorder {
	r := &Recorder{sink: sink, log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if r.exec == nil {
		r.exec = r.newExecutor(shardqueue.Config{})
	}
	return r
}

func (r *Recorder) newExecutor(cfg shardqueue.Config) *shardqueue.ShardExecutor {
	cfg.ErrorHandler = func(err error) {
		droppedTotal.WithLabelValues("write").Inc()
		r.log.Warn().Err(err).Msg("activity entry dropped")
	}
	return shardqueue.NewShardExecutor(cfg)
}

// Record stamps and enqueues entry. Entries for the same item are written in
// the order their Record calls were enqueued; calls racing from different
// goroutines are ordered by whichever enqueues first.
func (r *Recorder) Record(ctx context.Context, entry model.ActivityEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now().UTC()
	}
	// The mutation that produced the entry may finish, and cancel ctx, before
	// the write runs.
	jobCtx := context.WithoutCancel(ctx)
	job := shardqueue.JobFunc(func(ctx context.Context) error {
		return r.sink.RecordActivity(ctx, entry)
	})
	r.submitMu.Lock()
	err := r.exec.Submit(jobCtx, shardKey(entry), job)
	r.submitMu.Unlock()
	if err != nil {
		droppedTotal.WithLabelValues("submit").Inc()
		r.log.Warn().Err(err).
			Str("action", string(entry.ActionType)).
			Str("item_id", entry.ItemID).
			Msg("activity entry not enqueued")
		return
	}
	recordedTotal.WithLabelValues(string(entry.ActionType)).Inc()
}

// Flush waits until every entry recorded so far for itemID has been attempted.
func (r *Recorder) Flush(ctx context.Context, itemID string) error {
	return r.exec.Barrier(ctx, itemID)
}

// Close drains pending entries and stops the executor. Safe to call twice.
func (r *Recorder) Close() error {
	r.exec.Stop()
	return nil
}

func shardKey(e model.ActivityEntry) string {
	if e.ItemID != "" {
		return e.ItemID
	}
	return string(e.ActionType)
}
