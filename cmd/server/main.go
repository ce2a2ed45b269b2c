package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qfast/qfast/internal"
	"github.com/qfast/qfast/internal/auth"
	"github.com/qfast/qfast/internal/draft"
	"github.com/qfast/qfast/internal/handler"
	"github.com/qfast/qfast/internal/kv"
	"github.com/qfast/qfast/internal/locale"
	"github.com/qfast/qfast/internal/metrics"
	"github.com/qfast/qfast/internal/middleware"
	"github.com/qfast/qfast/internal/repository"
	"github.com/qfast/qfast/internal/service"
	"github.com/qfast/qfast/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Document storage
	docStore, err := newDocumentStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	// Durable tier for suspended drafts
	draftStore, err := kv.NewFileStore(cfg.DraftStoragePath)
	if err != nil {
		return fmt.Errorf("draft storage initialization failed: %w", err)
	}

	// Initialize services
	clientService := service.NewClientService(repo, logger)
	quoteService := service.NewQuoteService(repo, clientService, logger)
	numberService := service.NewQuoteNumberService(repo, logger)
	profileService := service.NewProfileService(repo, logger)
	documentService := service.NewDocumentService(docStore, quoteService, cfg.StorageProvider, logger)

	// Draft flows
	draftManager := draft.NewManager(draft.Deps{
		Profiles: profileService,
		Numbers:  numberService,
		Quotes:   quoteService,
		Clients:  clientService,
		Logger:   logger,
	}, draftStore)

	// Initialize middleware
	verifier := auth.NewVerifier(cfg.AuthJWTSecret, cfg.AuthIssuer)
	authMw := middleware.NewAuthMiddleware(verifier, logger)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	localeMw := middleware.NewLocaleMiddleware(
		locale.NewDetector(cfg.LocaleDomains, cfg.LocaleDevPorts, cfg.DefaultLocale))
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientService, logger)
	quoteHandler := handler.NewQuoteHandler(quoteService, logger)
	draftHandler := handler.NewDraftHandler(draftManager, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	documentHandler := handler.NewDocumentHandler(documentService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Metrics (basic auth when configured)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	api := middleware.Stack(
		loggingMw.Handler,
		metrics.Middleware,
		localeMw.Handler,
		authMw.WithIdentity,
		authMw.RequireIdentity,
	)

	// Clients
	mux.Handle("GET /api/clients", api(http.HandlerFunc(clientHandler.List)))
	mux.Handle("POST /api/clients", api(http.HandlerFunc(clientHandler.Create)))
	mux.Handle("GET /api/clients/{id}", api(http.HandlerFunc(clientHandler.Get)))
	mux.Handle("PUT /api/clients/{id}", api(http.HandlerFunc(clientHandler.Update)))
	mux.Handle("DELETE /api/clients/{id}", api(http.HandlerFunc(clientHandler.Delete)))

	// Quotes
	mux.Handle("GET /api/quotes", api(http.HandlerFunc(quoteHandler.List)))
	mux.Handle("POST /api/quotes", api(http.HandlerFunc(quoteHandler.Create)))
	mux.Handle("GET /api/quotes/stats", api(http.HandlerFunc(quoteHandler.Stats)))
	mux.Handle("GET /api/quotes/{id}", api(http.HandlerFunc(quoteHandler.Get)))
	mux.Handle("PUT /api/quotes/{id}", api(http.HandlerFunc(quoteHandler.Update)))

	// Quote exports
	mux.Handle("POST /api/quotes/{id}/exports", api(http.HandlerFunc(documentHandler.Upload)))
	mux.Handle("GET /api/quotes/{id}/exports/url", api(http.HandlerFunc(documentHandler.URL)))
	mux.Handle("DELETE /api/quotes/{id}/exports", api(http.HandlerFunc(documentHandler.Delete)))

	// Profile
	mux.Handle("GET /api/profile", api(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PUT /api/profile", api(http.HandlerFunc(profileHandler.Save)))

	// Quote wizard
	mux.Handle("POST /api/draft/enter", api(http.HandlerFunc(draftHandler.Enter)))
	mux.Handle("GET /api/draft", api(http.HandlerFunc(draftHandler.Get)))
	mux.Handle("PUT /api/draft/company", api(http.HandlerFunc(draftHandler.UpdateCompany)))
	mux.Handle("PUT /api/draft/client", api(http.HandlerFunc(draftHandler.UpdateClient)))
	mux.Handle("PUT /api/draft/items", api(http.HandlerFunc(draftHandler.UpdateItems)))
	mux.Handle("PUT /api/draft/terms", api(http.HandlerFunc(draftHandler.UpdateTerms)))
	mux.Handle("POST /api/draft/next", api(http.HandlerFunc(draftHandler.NextStep)))
	mux.Handle("POST /api/draft/previous", api(http.HandlerFunc(draftHandler.PreviousStep)))
	mux.Handle("POST /api/draft/step", api(http.HandlerFunc(draftHandler.SetStep)))
	mux.Handle("POST /api/draft/reset", api(http.HandlerFunc(draftHandler.Reset)))
	mux.Handle("POST /api/draft/clear", api(http.HandlerFunc(draftHandler.Clear)))
	mux.Handle("POST /api/draft/blur", api(http.HandlerFunc(draftHandler.Blur)))
	mux.Handle("POST /api/draft/focus", api(http.HandlerFunc(draftHandler.Focus)))
	mux.Handle("POST /api/draft/navigate", api(http.HandlerFunc(draftHandler.Navigate)))
	mux.Handle("POST /api/draft/save", api(http.HandlerFunc(draftHandler.Save)))
	mux.Handle("PUT /api/draft/quotes/{id}", api(http.HandlerFunc(draftHandler.SaveExisting)))
	mux.Handle("POST /api/draft/quotes/{id}/load", api(http.HandlerFunc(draftHandler.Load)))

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

// newDocumentStore builds the configured storage provider.
func newDocumentStore(cfg *internal.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.StorageProvider {
	case storage.ProviderR2:
		return storage.NewR2(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		}, logger)
	case storage.ProviderLocal:
		return storage.NewLocal(storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
