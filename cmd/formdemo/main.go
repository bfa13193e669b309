// Command formdemo serves a live validated sign up form.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/formkit/pkg/broadcast"
	"github.com/dmitrymomot/formkit/pkg/config"
	"github.com/dmitrymomot/formkit/pkg/formhttp"
	"github.com/dmitrymomot/formkit/pkg/httpserver"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.Load(&cfg, config.WithPrefix("FORMDEMO_")); err != nil {
		return err
	}

	log := newLogger(cfg)

	defs, fields, err := loadRules(cfg.RulesFile)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	storeOpts := []formhttp.StoreOption{
		formhttp.WithIdleTimeout(cfg.SessionIdleTimeout),
		formhttp.WithCleanupInterval(cfg.SessionCleanupInterval),
		formhttp.WithStoreLogger(log),
	}
	var checks []httpserver.HealthCheck

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		storeOpts = append(storeOpts, formhttp.WithBroadcaster(func(id string) broadcast.Broadcaster {
			return broadcast.NewRedisBroadcaster(client, cfg.Redis.ChannelPrefix+id, 16, log)
		}))
		checks = append(checks, redis.Healthcheck(client))
		// Deferred so it runs after the store shutdown hook.
		defer func() { _ = client.Close() }()
		log.InfoContext(ctx, "publishing form updates to redis", slog.String("prefix", cfg.Redis.ChannelPrefix))
	}

	store, err := formhttp.NewStore(defs, storeOpts...)
	if err != nil {
		return fmt.Errorf("register rules: %w", err)
	}

	srv := httpserver.New(cfg.HTTP, newRouter(cfg, store, fields, log, checks...),
		httpserver.WithLogger(log),
		httpserver.WithShutdownHook(func(context.Context) error { return store.Close() }),
	)
	log.InfoContext(ctx, "starting formdemo",
		slog.String("addr", cfg.HTTP.Addr),
		slog.Int("rules", len(defs)),
		slog.String("rules_file", cfg.RulesFile),
	)
	return srv.Run(ctx)
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "formdemo"),
		logger.WithContextExtractors(formhttp.LogExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	return logger.New(opts...)
}

func newRouter(cfg Config, store *formhttp.Store, fields []formhttp.Field, log *slog.Logger, checks ...httpserver.HealthCheck) chi.Router {
	opts := []formhttp.Option{
		formhttp.WithLogger(log),
		formhttp.WithTitle(cfg.Title),
	}
	if len(fields) > 0 {
		opts = append(opts, formhttp.WithFields(fields...))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, formhttp.RequestLogger(log), middleware.Recoverer)
	r.Get("/health", httpserver.HealthHandler(log))
	r.Get("/ready", httpserver.HealthHandler(log, append(checks, store.Ready)...))
	r.Mount("/", formhttp.NewHandler(store, opts...).Routes())
	return r
}

