// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"io"
	"net/http"

	"github.com/holomush/coursegate/internal/observability"
	"github.com/holomush/coursegate/internal/store"
	"github.com/holomush/coursegate/internal/web"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// PoolFactory connects to the database.
	// Default: store.Open
	PoolFactory func(ctx context.Context, dsn string, opts store.ConnectOptions) (Pool, error)

	// MigratorFactory creates a migrator for auto-migration.
	// Default: store.NewMigrator
	MigratorFactory func(dsn string) (AutoMigrator, error)

	// APIServerFactory creates the API server.
	// Default: web.NewServer
	APIServerFactory func(cfg web.ServerConfig, handler http.Handler) APIServer

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// LogWriter receives log output.
	// Default: os.Stderr
	LogWriter io.Writer
}

// Pool wraps the methods used from *pgxpool.Pool.
type Pool interface {
	store.Querier
	Ping(ctx context.Context) error
	Close()
}

// AutoMigrator wraps the methods used from store.Migrator at startup.
type AutoMigrator interface {
	Up() error
	Close() error
}

// Migrator wraps the methods used from store.Migrator by the migrate command.
type Migrator interface {
	AutoMigrator
	Down() error
	Force(version int) error
	Status() (store.MigrationStatus, error)
}

// APIServer wraps the methods used from web.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Running() bool
	Addr() string
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}
