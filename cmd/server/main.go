package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/wanderplan/internal/api/apiconnect"
	"github.com/mmynk/wanderplan/internal/auth"
	"github.com/mmynk/wanderplan/internal/config"
	"github.com/mmynk/wanderplan/internal/events"
	"github.com/mmynk/wanderplan/internal/metrics"
	"github.com/mmynk/wanderplan/internal/middleware"
	"github.com/mmynk/wanderplan/internal/service"
	"github.com/mmynk/wanderplan/internal/storage/sqlstore"
	"github.com/mmynk/wanderplan/internal/suggest"
	"github.com/mmynk/wanderplan/pkg/logging"
)

// Tokens are issued by the hosted auth service; this only bounds what we accept.
const tokenLifetime = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.Setup(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := sqlstore.Open(ctx, cfg.Storage.Driver, cfg.Storage.SQLitePath, cfg.Storage.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver)

	var publisher events.Publisher = events.Noop{}
	if cfg.EventsEnabled() {
		client, err := events.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			// Events only feed the worker; the API works without them.
			slog.Warn("Event broker unavailable, publishing disabled", "error", err)
		} else {
			publisher = client
			slog.Info("Event publishing enabled", "exchange", cfg.AMQP.Exchange)
		}
	}
	defer publisher.Close()

	var suggester *suggest.Suggester
	provider, err := suggest.NewOpenAIProvider(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
	switch {
	case err == nil:
		suggester = suggest.New(provider, cfg.LLM.Timeout)
		slog.Info("Activity suggestions enabled", "model", cfg.LLM.Model)
	case errors.Is(err, suggest.ErrDisabled):
		slog.Info("Activity suggestions disabled: no llm.api_key")
	default:
		return fmt.Errorf("failed to configure suggestions: %w", err)
	}

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tokenLifetime)
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(slog.Default()),
		middleware.MetricsInterceptor(m),
		middleware.RequireAuth(jwtManager),
	)

	mux := http.NewServeMux()

	// Register Connect services
	tripPath, tripHandler := apiconnect.NewTripServiceHandler(service.NewTripService(store, publisher), interceptors)
	mux.Handle(tripPath, tripHandler)

	itineraryPath, itineraryHandler := apiconnect.NewItineraryServiceHandler(service.NewItineraryService(store), interceptors)
	mux.Handle(itineraryPath, itineraryHandler)

	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store, publisher, m), interceptors)
	mux.Handle(expensePath, expenseHandler)

	budgetPath, budgetHandler := apiconnect.NewBudgetServiceHandler(service.NewBudgetService(store), interceptors)
	mux.Handle(budgetPath, budgetHandler)

	suggestionPath, suggestionHandler := apiconnect.NewSuggestionServiceHandler(service.NewSuggestionService(store, suggester), interceptors)
	mux.Handle(suggestionPath, suggestionHandler)

	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	staticDir, err := filepath.Abs(cfg.Server.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.HandleFunc("/", staticHandler(staticDir))

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// staticHandler serves the web client for every non-API route.
func staticHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Check if this is an API request (Connect RPC)
		if strings.HasPrefix(r.URL.Path, "/wanderplan.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))

		// Unknown paths fall back to index.html so client-side routes work
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
