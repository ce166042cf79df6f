// Package brain assembles a client-side workspace: the item store, the trash,
// the activity recorder and the preference cache, all backed by one item
// service.
package brain

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ananyateklu/second-brain-sub004/activity"
	"github.com/ananyateklu/second-brain-sub004/client"
	"github.com/ananyateklu/second-brain-sub004/internal/config"
	"github.com/ananyateklu/second-brain-sub004/items"
	"github.com/ananyateklu/second-brain-sub004/prefs"
	"github.com/ananyateklu/second-brain-sub004/trash"
)

// Workspace owns every component for one session. Close it when done.
type Workspace struct {
	Items    *items.Store
	Trash    *trash.Coordinator
	Activity *activity.Recorder
	Prefs    *prefs.Cache

	client *client.Client
	local  *prefs.SQLiteLocal
	log    zerolog.Logger
}

type options struct {
	log        zerolog.Logger
	clientOpts []client.Option
}

// Option customizes Open.
type Option func(*options)

func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// WithClientOptions passes extra options to the item service client.
func WithClientOptions(opts ...client.Option) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, opts...) }
}

// Open wires a workspace from cfg. Nothing is fetched until Load.
func Open(ctx context.Context, cfg *config.Client, opts ...Option) (*Workspace, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	copts := []client.Option{client.WithHTTPTimeout(cfg.HTTPTimeout)}
	if cfg.Breaker {
		copts = append(copts, client.WithCircuitBreaker(client.DefaultBreakerConfig()))
	}
	c, err := client.New(cfg.ServiceURL, cfg.APIKey, append(copts, o.clientOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("item service client: %w", err)
	}

	local, err := prefs.OpenLocal(ctx, cfg.PrefsPath)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("local preferences: %w", err)
	}

	tr := trash.New(cfg.TrashRetention(), trash.WithLogger(o.log))
	rec := activity.NewRecorder(c,
		activity.WithLogger(o.log),
		activity.WithExecutorConfig(cfg.Activity),
	)
	st := items.New(c, tr, rec, items.WithLogger(o.log))
	tr.Bind(st)

	return &Workspace{
		Items:    st,
		Trash:    tr,
		Activity: rec,
		Prefs:    prefs.NewCache(prefs.NewHTTPRemote(c.BaseURL(), cfg.APIKey, cfg.HTTPTimeout), local, o.log),
		client:   c,
		local:    local,
		log:      o.log,
	}, nil
}

// Load fetches the active, archived and trashed collections.
func (w *Workspace) Load(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Items.Load(gctx) })
	g.Go(func() error { return w.Trash.Load(gctx, w.client) })
	return g.Wait()
}

// Close stops committing in-flight results, drains pending activity and
// releases the client and the local cache.
func (w *Workspace) Close() error {
	w.Items.Unmount()
	return errors.Join(w.Activity.Close(), w.client.Close(), w.local.Close())
}
