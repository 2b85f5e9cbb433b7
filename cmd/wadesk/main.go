// wadesk is the support dashboard backend: it ingests WhatsApp messages from
// automation agents via webhook, resolves them onto conversations, and lets
// human operators take over and reply in real time.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	wdhttp "github.com/wadesk/wadesk/internal/adapter/http"
	wdnats "github.com/wadesk/wadesk/internal/adapter/nats"
	wdotel "github.com/wadesk/wadesk/internal/adapter/otel"
	"github.com/wadesk/wadesk/internal/adapter/postgres"
	"github.com/wadesk/wadesk/internal/adapter/ristretto"
	"github.com/wadesk/wadesk/internal/adapter/ws"
	"github.com/wadesk/wadesk/internal/config"
	"github.com/wadesk/wadesk/internal/logger"
	"github.com/wadesk/wadesk/internal/middleware"
	"github.com/wadesk/wadesk/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"nats_enabled", cfg.NATS.URL != "",
	)

	ctx := context.Background()

	shutdownTracer := wdotel.InitTracer(cfg.Logging.Service)
	defer func() { _ = shutdownTracer(ctx) }()

	metrics, err := wdotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	agentCache, err := ristretto.New(cfg.Cache.MaxBytes)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer agentCache.Close()

	hub := ws.NewHub()

	// Optional cross-instance event bridge.
	var publisher service.EventPublisher
	if cfg.NATS.URL != "" {
		bridge, err := wdnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = bridge.Close() }()
		if err := bridge.Relay(ctx, hub); err != nil {
			return fmt.Errorf("nats relay: %w", err)
		}
		publisher = bridge
	}
	notifier := service.NewNotifier(hub, publisher)

	// --- Services ---

	store := postgres.NewStore(pool)
	authSvc := service.NewAuthService(store, &cfg.Auth)
	agentSvc := service.NewAgentService(store, agentCache, cfg.Cache.AgentTTL)
	conversationSvc := service.NewConversationService(store)
	handoffSvc := service.NewHandoffService(store, notifier)
	inboundSvc := service.NewInboundService(store, agentSvc, notifier, metrics, cfg.Policy.AllowAIWhileHuman)
	outboundSvc := service.NewOutboundService(store, agentSvc, notifier, metrics, cfg.Relay)

	handlers := &wdhttp.Handlers{
		Auth:          authSvc,
		Agents:        agentSvc,
		Conversations: conversationSvc,
		Handoff:       handoffSvc,
		Inbound:       inboundSvc,
		Outbound:      outboundSvc,
		Hub:           hub,
	}

	// --- HTTP ---

	r := chi.NewRouter()
	r.Use(wdhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(wdhttp.Logger)
	r.Use(wdhttp.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(wdotel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(middleware.Auth(authSvc))

	wdhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
