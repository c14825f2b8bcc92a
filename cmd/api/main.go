package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/remodelgrid/leadgen-api/internal/api/router"
	appconfig "github.com/remodelgrid/leadgen-api/internal/config"
	"github.com/remodelgrid/leadgen-api/internal/content"
	"github.com/remodelgrid/leadgen-api/internal/leads"
	"github.com/remodelgrid/leadgen-api/internal/notify"
	"github.com/remodelgrid/leadgen-api/internal/observability/metrics"
	"github.com/remodelgrid/leadgen-api/internal/recaptcha"
	"github.com/remodelgrid/leadgen-api/pkg/logging"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadgen API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"lead_store", cfg.LeadStore,
	)

	registry := prometheus.NewRegistry()
	leadMetrics := metrics.NewLeadMetrics(registry)

	// Select the lead store
	store := buildStore(cfg, logger.WithComponent("store"))

	dupChecker, err := leads.NewDuplicateChecker(store, cfg.DuplicateWindowHours, logger.WithComponent("leads"))
	if err != nil {
		logger.Error("invalid duplicate window", "error", err, "hours", cfg.DuplicateWindowHours)
		os.Exit(1)
	}

	// Risk check is optional: no secret means submissions skip it.
	var assessor leads.RiskAssessor
	if cfg.RecaptchaSecretKey != "" {
		a, err := recaptcha.NewAssessor(recaptcha.Config{
			SecretKey: cfg.RecaptchaSecretKey,
			SiteKey:   cfg.RecaptchaSiteKey,
			ProjectID: cfg.RecaptchaProjectID,
			MinScore:  cfg.RecaptchaMinScore,
		}, logger.WithComponent("recaptcha"))
		if err != nil {
			logger.Error("failed to configure recaptcha assessor", "error", err)
			os.Exit(1)
		}
		assessor = a
	} else {
		logger.Warn("recaptcha secret not configured, risk check disabled")
	}

	notifyLogger := logger.WithComponent("notify")
	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, notifyLogger)
	var notifier leads.Notifier
	if svc := notify.NewService(emailSender, cfg.LeadNotifyEmail, notifyLogger); svc != nil {
		notifier = svc
	}

	leadsService := leads.NewService(store, dupChecker, assessor, notifier, leadMetrics, logger.WithComponent("leads"))
	leadsHandler := leads.NewHandler(leadsService, logger.WithComponent("leads"))

	// Content generation: the Claude client is only built when a key is
	// configured; without it the endpoint fails at call time.
	var completer content.Completer
	if cfg.ClaudeAPIKey != "" {
		claude, err := content.NewClaudeClient(content.ClaudeConfig{
			APIKey:  cfg.ClaudeAPIKey,
			Model:   cfg.ClaudeModel,
			Timeout: cfg.ClaudeTimeout,
		})
		if err != nil {
			logger.Error("failed to configure claude client", "error", err)
			os.Exit(1)
		}
		completer = claude
	} else {
		logger.Warn("claude API key not configured, direct generation disabled")
	}
	generator := content.NewGenerator(completer)
	contentHandler := content.NewHandler(generator, content.NewMakeClient(0), cfg.MakeWebhookURL, leadMetrics, logger.WithComponent("content"))

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		ContentHandler:     contentHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildStore picks the lead store from configuration. Airtable is the
// default system of record; Postgres suits self-hosted deployments; the
// in-memory store is the fallback so local development works with no
// credentials at all.
func buildStore(cfg *appconfig.Config, logger *logging.Logger) leads.Store {
	switch cfg.LeadStore {
	case "postgres":
		if cfg.DatabaseURL == "" {
			logger.Warn("LEAD_STORE=postgres but DATABASE_URL missing, using in-memory store")
			return leads.NewInMemoryStore()
		}
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		return leads.NewPostgresStore(pool)
	case "memory":
		return leads.NewInMemoryStore()
	default:
		store, err := leads.NewAirtableStore(leads.AirtableConfig{
			APIKey:  cfg.AirtableAPIKey,
			BaseID:  cfg.AirtableBaseID,
			TableID: cfg.AirtableTableID,
		})
		if err != nil {
			logger.Warn("airtable not configured, using in-memory store", "error", err)
			return leads.NewInMemoryStore()
		}
		return store
	}
}
