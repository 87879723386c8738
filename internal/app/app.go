// Package app wires the storage area, caches, session validator and
// diagnostics together, and runs the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iggydv12/dashcache/internal/api/rest"
	"github.com/iggydv12/dashcache/internal/cache"
	"github.com/iggydv12/dashcache/internal/config"
	"github.com/iggydv12/dashcache/internal/diagnostics"
	"github.com/iggydv12/dashcache/internal/session"
	"github.com/iggydv12/dashcache/internal/storage"
	"github.com/iggydv12/dashcache/internal/storage/local"
)

// App holds every component, constructed once at startup.
type App struct {
	Store      local.Store
	Adapter    *storage.Adapter
	Dashboards *cache.Dashboards
	Navigation *cache.Navigation
	Sessions   *session.Validator
	Inspector  *diagnostics.Inspector

	cfg    *config.Config
	logger *zap.Logger
}

// New opens the configured store and builds the components on top of it.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := openStore(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, store, logger), nil
}

func newApp(cfg *config.Config, store local.Store, logger *zap.Logger) *App {
	a := storage.New(store, cfg.Cache.Prefix, logger)
	d := cache.NewDashboards(a, cfg.Cache.Version, logger)
	n := cache.NewNavigation(a, cfg.Cache.Version, logger)
	v := session.NewValidator(store, logger)
	return &App{
		Store:      store,
		Adapter:    a,
		Dashboards: d,
		Navigation: n,
		Sessions:   v,
		Inspector:  diagnostics.New(a, d, n, v, cfg.Cache.CapacityBytes, logger),
		cfg:        cfg,
		logger:     logger,
	}
}

func openStore(cfg config.StorageConfig, logger *zap.Logger) (local.Store, error) {
	switch cfg.Backend {
	case "memory":
		return local.NewMemoryStore(0), nil
	case "pebble", "":
		ps := local.NewPebbleStore(cfg.Path, logger)
		if err := ps.Init(); err != nil {
			return nil, fmt.Errorf("storage init: %w", err)
		}
		return ps, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (use 'pebble' or 'memory')", cfg.Backend)
	}
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Run serves the HTTP API until SIGINT/SIGTERM or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Rest.Addr,
		Handler:           rest.New(a.Dashboards, a.Navigation, a.Sessions, a.Inspector, a.logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		a.logger.Info("HTTP API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
