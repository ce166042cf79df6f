// Package itemservice runs the reference item service.
package itemservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ananyateklu/second-brain-sub004/internal/api"
	"github.com/ananyateklu/second-brain-sub004/internal/auth"
	"github.com/ananyateklu/second-brain-sub004/internal/config"
	"github.com/ananyateklu/second-brain-sub004/internal/health"
	"github.com/ananyateklu/second-brain-sub004/internal/logger"
	"github.com/ananyateklu/second-brain-sub004/internal/service"
	"github.com/ananyateklu/second-brain-sub004/internal/store"
	"github.com/ananyateklu/second-brain-sub004/internal/store/postgres"
	"github.com/ananyateklu/second-brain-sub004/internal/store/sqlite"
)

type options struct {
	log      zerolog.Logger
	listener net.Listener
}

// Option customizes Run.
type Option func(*options)

// WithLogger replaces the default JSON logger.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

// WithListener serves on ln instead of cfg.HTTPAddr().
func WithListener(ln net.Listener) Option { return func(o *options) { o.listener = ln } }

// Run starts the item service and blocks until ctx is cancelled, SIGINT or
// SIGTERM arrives, or the server fails.
func Run(ctx context.Context, cfg *config.Service, opts ...Option) error {
	o := options{log: logger.New("item-service")}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Int("trash_retention_days", cfg.TrashRetentionDays).
		Msg("Item service starting")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := NewStore(ctx, cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("store close failed")
		}
	}()

	svc := service.NewItems(st, cfg.TrashRetention(), service.WithLogger(log))
	svcHealth := startHealthCheckers(ctx, cfg, log, st)
	router := api.NewRouter(svc, auth.NewKeyAuthorizer(cfg.APIKey), svcHealth.IsHealthy)

	if err := health.WaitUntilHealthy(ctx, svcHealth, cfg.StartupTimeout); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	go purgeLoop(ctx, svc, cfg.PurgeInterval, log)

	ln := o.listener
	if ln == nil {
		if ln, err = net.Listen("tcp", cfg.HTTPAddr()); err != nil {
			return fmt.Errorf("listen %s: %w", cfg.HTTPAddr(), err)
		}
	}
	server := newHTTPServer(ctx, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("HTTP server starting")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// NewStore opens the store selected by cfg.DBDriver.
func NewStore(ctx context.Context, cfg *config.Service) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqlite.Open(ctx, cfg.SQLitePath)
	case "postgres":
		return postgres.Open(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}

func startHealthCheckers(ctx context.Context, cfg *config.Service, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	storeChecker := store.NewHealthChecker(st, log, cfg.HealthProbeTimeout)
	go storeChecker.Start(ctx, cfg.HealthInterval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, cfg.HealthInterval)
	return svcHealth
}

// purgeLoop removes trash older than the retention window on every tick.
func purgeLoop(ctx context.Context, svc *service.Items, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := svc.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("trash purge failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func newHTTPServer(ctx context.Context, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}
