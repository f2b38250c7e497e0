package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folioworks/portfolio-api/internal/auth"
	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/db"
	httpx "github.com/folioworks/portfolio-api/internal/http"
	"github.com/folioworks/portfolio-api/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()

	if err != nil {
		// no logger yet, config failures go straight to stderr
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing is opt-in: only start the exporter when an endpoint is set
	var shutdownTracer func(context.Context) error

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err = observability.InitTracer(context.Background(), "portfolio-api", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
	}

	// open the database, run migrations
	startCtx, cancelStart := config.WithTimeout(30 * time.Second)

	pool, err := db.Open(startCtx, cfg.DBPath)

	if err != nil {
		cancelStart()
		log.Error("database open failed", "err", err)
		os.Exit(1)
	}

	// make sure the admin account exists before serving traffic
	err = db.EnsureAdminUser(startCtx, pool, cfg)
	cancelStart()

	if err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL())

	reg := prometheus.NewRegistry()

	// set up router
	router := httpx.NewRouter(cfg, pool, jwtManager, reg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if shutdownTracer != nil {
			if err := shutdownTracer(ctx); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}

		if err := pool.Close(); err != nil {
			log.Error("database close failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
