// @title           Artistic Unity Backend API
// @version         1.0.0
// @description     Order intake for custom framed photo collages. Orders are stored in a per-order folder and tracked by id.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an admin JWT.

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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/config"
	"artistic-unity-backend/internal/events"
	"artistic-unity-backend/internal/logging"
	"artistic-unity-backend/internal/metrics"
	"artistic-unity-backend/internal/server"
	"artistic-unity-backend/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "kind", apperr.Kind(err), "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup []func()
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := metrics.NewPrometheusObserver(reg)
	if err != nil {
		return apperr.Initialization("metrics", err)
	}

	provider, err := newFolderProvider(ctx, cfg)
	if err != nil {
		return apperr.Initialization("folder store", err)
	}
	folders := services.NewFolderStore(provider, cfg.UploadConcurrency, observer, logger)
	if err := waitReady(ctx, logger, cfg.ReadinessTimeout, folders.Ping); err != nil {
		return apperr.Initialization("folder store", err)
	}
	logger.Info("folder store ready", "provider", cfg.StorageProvider)

	repo, closeRepo, err := newOrderRepository(ctx, cfg, logger)
	if err != nil {
		return apperr.Initialization("status store", err)
	}
	cleanup = append(cleanup, closeRepo)
	logger.Info("status store ready", "store", cfg.StatusStore)

	var publisher services.EventPublisher
	if cfg.RabbitURL != "" {
		rabbit, err := events.DialRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return apperr.Initialization("rabbitmq", err)
		}
		cleanup = append(cleanup, func() {
			if err := rabbit.Close(); err != nil {
				logger.Warn("failed to close rabbitmq connection", "error", err)
			}
		})
		publisher = rabbit
		logger.Info("order events enabled", "exchange", cfg.RabbitExchange)
	}

	orders := services.NewOrderService(folders, repo, publisher, observer, logger, services.Options{
		RecordFailures:   cfg.RecordFailedOrders,
		CleanupOnFailure: cfg.CleanupOnFailure,
		PersistTimeout:   cfg.StorageTimeout,
	})

	router := server.NewRouter(server.Deps{
		Orders:             orders,
		Logger:             logger,
		Gatherer:           reg,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Artistic Unity Backend listening", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// waitReady retries check until it succeeds, timeout elapses or ctx ends.
func waitReady(ctx context.Context, logger *slog.Logger, timeout time.Duration, check func(context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	backoff := 500 * time.Millisecond
	for {
		err := check(ctx)
		if err == nil {
			return nil
		}
		logger.Warn("dependency not ready", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return fmt.Errorf("not ready: %w", err)
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 5*time.Second)
	}
}
