package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/httpapi"
	"github.com/goliatone/go-formbuilder/pkg/events"
	"github.com/goliatone/go-formbuilder/pkg/metrics"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/jsonview"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/session"
	"github.com/goliatone/go-formbuilder/pkg/session/memoryhost"
	"github.com/goliatone/go-formbuilder/pkg/session/redishost"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/store/gormstore"
	"github.com/goliatone/go-formbuilder/pkg/store/sqlite"
)

func main() {
	envFile := flag.String("env", "", "extra .env file loaded after .env and .env.local")
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open session host: %v", err)
	}
	defer closeSessions()

	publisher, err := openPublisher(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to configure events: %v", err)
	}
	defer publisher.Close()

	html, err := vanilla.New()
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(jsonview.New())

	themes, err := render.NewThemes(cfg.Theme, cfg.ThemeVariant, vanilla.DefaultTheme(cfg.AssetPrefix))
	if err != nil {
		log.Fatalf("Failed to load themes: %v", err)
	}

	server := httpapi.New(st, sessions, registry,
		httpapi.WithLogger(logger),
		httpapi.WithPublisher(publisher),
		httpapi.WithMetrics(metrics.New()),
		httpapi.WithThemes(themes, cfg.Theme, cfg.ThemeVariant),
		httpapi.WithSubmitTimeout(cfg.SubmitTimeout),
		httpapi.WithSessionTTL(cfg.SessionTTL),
		httpapi.WithAssets(vanilla.AssetsFS()),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("form builder listening", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver, "sessions", cfg.SessionHost, "events", cfg.EventsEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.StorePostgres {
		st, err := gormstore.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	st, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func openSessions(ctx context.Context, cfg config.Config) (session.Host, func(), error) {
	if cfg.SessionHost == config.SessionRedis {
		host, err := redishost.New(redishost.Config{RedisAddr: cfg.RedisAddr, KeyPrefix: cfg.SessionKeyPrefix})
		if err != nil {
			return nil, nil, err
		}
		return host, func() { _ = host.Close() }, nil
	}

	host := memoryhost.New()
	sweepCtx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := host.Sweep(); n > 0 {
					slog.Debug("expired sessions removed", "count", n)
				}
			}
		}
	}()
	return host, cancel, nil
}

func openPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, error) {
	if !cfg.EventsEnabled() {
		return events.Noop{}, nil
	}
	publisher, err := events.NewKafka(events.KafkaConfig{
		Brokers:  cfg.Brokers(),
		Topic:    cfg.KafkaTopic,
		ClientID: "formbuilder",
	}, logger)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}
