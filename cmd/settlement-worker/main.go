// Command settlement-worker consumes ledger-change events and recomputes the
// affected trip's settlement plan.
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

	"github.com/mmynk/wanderplan/internal/config"
	"github.com/mmynk/wanderplan/internal/events"
	"github.com/mmynk/wanderplan/internal/metrics"
	"github.com/mmynk/wanderplan/internal/service"
	"github.com/mmynk/wanderplan/internal/storage/sqlstore"
	"github.com/mmynk/wanderplan/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateWorker(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Worker failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Worker stopped")
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := sqlstore.Open(ctx, cfg.Storage.Driver, cfg.Storage.SQLitePath, cfg.Storage.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer client.Close()

	m := metrics.New()
	if cfg.Worker.MetricsPort > 0 {
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
			Handler:           m.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer server.Close()
	}

	recomputer := service.NewRecomputer(store, m)

	slog.Info("Settlement worker started",
		"driver", cfg.Storage.Driver,
		"exchange", cfg.AMQP.Exchange,
		"queue", cfg.AMQP.Queue,
	)
	err = client.Consume(ctx, recomputer.HandleEvent)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
