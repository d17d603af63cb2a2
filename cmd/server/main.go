// @title                       Pool Registry API
// @version                     1.0
// @description                 Swimming-pool equipment records with JWT authentication and role-based access.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/adroid/pool-registry/docs"
	"github.com/adroid/pool-registry/internal/api"
	"github.com/adroid/pool-registry/internal/api/handler"
	"github.com/adroid/pool-registry/internal/core/ports"
	memorystore "github.com/adroid/pool-registry/internal/infrastructure/db/memory"
	mongostore "github.com/adroid/pool-registry/internal/infrastructure/db/mongo"
	pgstore "github.com/adroid/pool-registry/internal/infrastructure/db/postgres"
	redisstore "github.com/adroid/pool-registry/internal/infrastructure/db/redis"
	"github.com/adroid/pool-registry/internal/pkg/config"
	"github.com/adroid/pool-registry/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	opts := logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()}
	if cfg.LogFile != "" {
		opts.File = &logger.FileOptions{Path: cfg.LogFile, MaxBackups: 5, MaxAgeDays: 28, Compress: true}
	}
	log := logger.Init(opts)
	if envErr != nil {
		log.Debug().Msg("no .env file found; relying on existing environment")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// stores bundles the repositories of the selected driver with their cleanup.
type stores struct {
	users ports.UserRepository
	pools ports.PoolRepository
	probe handler.Pinger
	close func(context.Context)
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}

	th, err := openThrottle(ctx, cfg)
	if err != nil {
		st.close(context.Background())
		return err
	}

	probes := map[string]handler.Pinger{}
	if st.probe != nil {
		probes[cfg.StoreDriver] = st.probe
	}
	if th.probe != nil {
		probes["redis"] = th.probe
	}

	e := api.NewRouter(api.Config{
		Users:      st.users,
		Pools:      st.pools,
		Limiter:    th.limiter,
		Probes:     probes,
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.JWTTTL,
		BcryptCost: cfg.BcryptCost,
		Logger:     log,
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("pool registry listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	if err := th.close(); err != nil {
		log.Error().Err(err).Msg("redis close error")
	}
	st.close(shutdownCtx)

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}

// throttle holds the login limiter and its Redis client. Both are nil when
// throttling is disabled, in which case Redis is never dialed.
type throttle struct {
	limiter ports.LoginLimiter
	probe   handler.Pinger
	close   func() error
}

func openThrottle(ctx context.Context, cfg *config.Config) (*throttle, error) {
	if cfg.Login.MaxAttempts <= 0 {
		return &throttle{close: func() error { return nil }}, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	return &throttle{
		limiter: redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window),
		probe:   redisstore.NewPinger(rdb),
		close:   rdb.Close,
	}, nil
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		users := memorystore.NewUserRepository()
		return &stores{
			users: users,
			pools: memorystore.NewPoolRepository(users),
			close: func(context.Context) {},
		}, nil

	case config.DriverPostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{
			URL:      cfg.Postgres.URL,
			MaxConns: cfg.Postgres.MaxConns,
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := pgstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &stores{
			users: pgstore.NewUserRepository(pool, cfg.StoreTimeout),
			pools: pgstore.NewPoolRepository(pool, cfg.StoreTimeout),
			probe: pool,
			close: func(context.Context) { pool.Close() },
		}, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.StoreTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users: mongostore.NewUserRepository(db, cfg.StoreTimeout),
			pools: mongostore.NewPoolRepository(db, cfg.StoreTimeout),
			probe: mongostore.NewPinger(client),
			close: func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil
	}
}
