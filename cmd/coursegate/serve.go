// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/coursegate/internal/auth"
	authpg "github.com/holomush/coursegate/internal/auth/postgres"
	"github.com/holomush/coursegate/internal/config"
	"github.com/holomush/coursegate/internal/course"
	coursepg "github.com/holomush/coursegate/internal/course/postgres"
	"github.com/holomush/coursegate/internal/logging"
	"github.com/holomush/coursegate/internal/observability"
	"github.com/holomush/coursegate/internal/store"
	"github.com/holomush/coursegate/internal/web"
	"github.com/holomush/coursegate/pkg/errutil"
)

const (
	serviceName     = "coursegate"
	shutdownTimeout = 10 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the API server. Pending migrations are applied first unless
database.auto_migrate is false. Metrics and health probes are served on
metrics.addr when it is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServeWithDeps(ctx, cmd, cfg, nil)
		},
	}
}

func (d *ServeDeps) setDefaults() {
	if d.PoolFactory == nil {
		d.PoolFactory = func(ctx context.Context, dsn string, opts store.ConnectOptions) (Pool, error) {
			pool, err := store.Open(ctx, dsn, opts)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if d.MigratorFactory == nil {
		d.MigratorFactory = func(dsn string) (AutoMigrator, error) {
			return store.NewMigrator(dsn)
		}
	}
	if d.APIServerFactory == nil {
		d.APIServerFactory = func(cfg web.ServerConfig, handler http.Handler) APIServer {
			return web.NewServer(cfg, handler)
		}
	}
	if d.ObservabilityServerFactory == nil {
		d.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if d.LogWriter == nil {
		d.LogWriter = os.Stderr
	}
}

// runServeWithDeps runs the API until ctx is cancelled or a server fails.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, cfg *config.Config, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	deps.setDefaults()

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   level,
		Writer:  deps.LogWriter,
	})
	logger.Info("starting coursegate", "config", cfg)

	dsn := string(cfg.Database.URL)
	pool, err := deps.PoolFactory(ctx, dsn, cfg.ConnectOptions())
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.Database.AutoMigrate {
		if err := autoMigrate(deps.MigratorFactory, dsn, logger); err != nil {
			return err
		}
	}

	hasher, err := auth.NewArgon2idHasher(cfg.HasherParams())
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(cfg.TokenConfig())
	if err != nil {
		return err
	}
	accounts := authpg.NewAccountRepository(pool)
	registrar, err := auth.NewRegistrationServiceWithLogger(accounts, hasher, logger)
	if err != nil {
		return err
	}
	authenticator, err := auth.NewAuthServiceWithLogger(accounts, hasher, tokens, logger)
	if err != nil {
		return err
	}
	catalog, err := course.NewServiceWithLogger(
		coursepg.NewCourseRepository(pool),
		coursepg.NewPurchaseRepository(pool),
		logger,
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var api APIServer
	var obsServer ObservabilityServer
	var recorder web.Recorder = web.NopRecorder{}
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, func(ctx context.Context) error {
			if api == nil || !api.Running() {
				return oops.Errorf("api server not running")
			}
			return pool.Ping(ctx)
		})
		recorder = obsServer.Metrics()
	}

	handler, err := web.NewHandler(web.Config{
		Registrar:     registrar,
		Authenticator: authenticator,
		Catalog:       catalog,
		Tokens:        tokens,
		Recorder:      recorder,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	api = deps.APIServerFactory(web.ServerConfig{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, handler)
	apiErrCh, err := api.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	if obsServer != nil {
		obsErrCh, err := obsServer.Start()
		if err != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if stopErr := api.Stop(shutdownCtx); stopErr != nil {
				errutil.LogError(logger, "failed to stop api server during cleanup", stopErr)
			}
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	cmd.Println("coursegate started")
	logger.Info("coursegate ready", "api_addr", api.Addr())

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := api.Stop(shutdownCtx); err != nil {
		errutil.LogError(logger, "error stopping api server", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			errutil.LogError(logger, "error stopping observability server", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// autoMigrate applies pending migrations before the API starts.
func autoMigrate(factory func(dsn string) (AutoMigrator, error), dsn string, logger *slog.Logger) error {
	migrator, err := factory(dsn)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			errutil.LogError(logger, "failed to close migrator", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}
	logger.Info("database migrations applied")
	return nil
}

// monitorServerErrors cancels ctx when a server reports a failure. It
// exits when an error arrives, the channel is closed, or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
