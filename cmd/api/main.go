// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Comunidad HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Build the JWT service, the role cache and the access guard.
//  6. Wire repositories, services and HTTP handlers per domain.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/api"
	"github.com/taibuivan/comunidad/internal/core/archivo"
	"github.com/taibuivan/comunidad/internal/core/blog"
	"github.com/taibuivan/comunidad/internal/core/contact"
	"github.com/taibuivan/comunidad/internal/core/delegation"
	"github.com/taibuivan/comunidad/internal/core/event"
	"github.com/taibuivan/comunidad/internal/platform/config"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/metrics"
	"github.com/taibuivan/comunidad/internal/platform/migration"
	pgstore "github.com/taibuivan/comunidad/internal/platform/postgres"
	redisstore "github.com/taibuivan/comunidad/internal/platform/redis"
	"github.com/taibuivan/comunidad/internal/platform/sec"
	"github.com/taibuivan/comunidad/internal/platform/storage"
	"github.com/taibuivan/comunidad/internal/users/account"
	"github.com/taibuivan/comunidad/internal/users/auth"
	"github.com/taibuivan/comunidad/internal/users/roles"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("storage_enabled", cfg.StorageEnabled()),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled),
	)

	// appCtx lives until shutdown and stops the background loops.
	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	startupCtx, startupCancel := context.WithTimeout(appCtx, constants.StartupTimeout)
	defer startupCancel()

	// ── 3. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.PoolSize{
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, migration.Source(cfg.MigrationPath), log), "run migrations")

	// ── 5. Security ───────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	var collector *metrics.Metrics
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	roleRepository := roles.NewPostgresRepository(pool)
	roleLookup := roles.NewCachedLookup(roleRepository, rdb, cfg.RoleCacheTTL, log, collector)
	guard := access.NewGuard(roleLookup, collector)

	// ── 6. Object Storage ─────────────────────────────────────────────────
	var objects archivo.ObjectStore
	if cfg.StorageEnabled() {
		bucket, err := storage.NewS3(startupCtx, storage.Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
			PresignTTL:   cfg.S3PresignTTL,
		})
		must(log, err, "initialize object storage")
		objects = bucket
	} else {
		log.Warn("object_storage_disabled", slog.String("hint", "set S3_BUCKET to enable file uploads"))
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	roleService := roles.NewService(roleRepository, roleLookup, log)

	users := auth.NewUserRepository(pool)
	sessions := auth.NewSessionRepository(pool)

	authService := auth.NewService(auth.Dependencies{
		Users:        users,
		Sessions:     sessions,
		ResetTokens:  auth.NewResetTokenRepository(rdb),
		VerifyTokens: auth.NewVerificationTokenRepository(rdb),
		Tokens:       jwtSvc,
		Roles:        roleService,
		Mailer:       auth.NewLogMailer(log),
		Logger:       log,
	})

	accountService := account.NewService(users, sessions, roleLookup, log)

	blogService := blog.NewService(blog.NewCategoryRepository(pool), blog.NewPostRepository(pool), log)
	eventService := event.NewService(event.NewPostgresRepository(pool), log)
	fileService := archivo.NewService(archivo.NewPostgresRepository(pool), objects, log)
	delegationService := delegation.NewService(delegation.NewPostgresRepository(pool), log)
	contactService := contact.NewService(contact.NewPostgresRepository(pool), log)

	liveness, readiness := api.NewHealthHandlers(log,
		api.Probe{Name: "postgres", Ping: func(context context.Context) error { return pgstore.Ping(context, pool) }},
		api.Probe{Name: "redis", Ping: func(context context.Context) error { return redisstore.Ping(context, rdb) }},
	)

	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Auth:        auth.NewHandler(authService, cfg.CookieSecure),
		Account:     account.NewHandler(accountService),
		Roles:       roles.NewHandler(roleService, guard),
		Blog:        blog.NewHandler(blogService, guard),
		Events:      event.NewHandler(eventService, guard),
		Files:       archivo.NewHandler(fileService, guard),
		Delegations: delegation.NewHandler(delegationService, guard),
		Contact:     contact.NewHandler(contactService, guard),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, api.Dependencies{
		Config:   cfg,
		Logger:   log,
		Verifier: jwtSvc,
		Guard:    guard,
		Metrics:  collector,
	}, handlers)

	go purgeSessions(appCtx, authService, log)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	stop()

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "comunidad"))
	slog.SetDefault(log)
	return log
}

// purgeSessions deletes expired refresh sessions until context is cancelled.
func purgeSessions(context context.Context, service *auth.Service, log *slog.Logger) {
	ticker := time.NewTicker(constants.SessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-context.Done():
			return
		case <-ticker.C:
			if err := service.PurgeExpiredSessions(context); err != nil {
				log.Warn("session_purge_failed", slog.Any("error", err))
			}
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
