// Package app wires storage, the document container and sync together and
// runs the startup sequence.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/subly-core/internal/cloudsync"
	"github.com/dshills/subly-core/internal/docstore"
	"github.com/dshills/subly-core/internal/storage"
)

// Options configures Bootstrap
type Options struct {
	DBPath   string
	Version  string
	Platform string // defaults to runtime.GOOS
	HomeDir  string // overrides the user's home for the container lookup
	Registry storage.Registry
	Logger   *slog.Logger
}

// App holds the long-lived components
type App struct {
	Storage   *storage.SQLiteStorage
	Documents *docstore.Store
	Sync      *cloudsync.Provider
	Platform  string
	Version   string

	// ContainerAvailable is the result of the startup probe only; callers
	// that care must re-resolve.
	ContainerAvailable bool

	logger *slog.Logger
}

// Bootstrap opens the database, converging its schema, and probes the cloud
// container concurrently. A migration failure is fatal; an unavailable
// container is not.
func Bootstrap(ctx context.Context, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	platform := opts.Platform
	if platform == "" {
		platform = runtime.GOOS
	}
	registry := opts.Registry
	if len(registry.Migrations()) == 0 {
		registry = storage.DefaultRegistry()
	}

	docs := docstore.New(docstore.Options{Platform: platform, HomeDir: opts.HomeDir, Logger: logger})

	var (
		store     *storage.SQLiteStorage
		available bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := storage.NewSQLiteStorage(gctx, opts.DBPath, registry)
		if err != nil {
			return err
		}
		store = s
		return nil
	})
	g.Go(func() error {
		_, available = docs.ResolveContainer()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("startup failed: %w", err)
	}

	logger.Info("startup complete",
		"platform", platform,
		"version", opts.Version,
		"schema_version", registry.Latest(),
		"container_available", available,
	)

	return &App{
		Storage:            store,
		Documents:          docs,
		Sync:               cloudsync.NewProvider(docs, store, logger),
		Platform:           platform,
		Version:            opts.Version,
		ContainerAvailable: available,
		logger:             logger.With("component", "app"),
	}, nil
}

// Close releases the database
func (a *App) Close() error {
	return a.Storage.Close()
}
