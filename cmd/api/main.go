package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/medischedule/medischedule-server/internal/api/router"
	"github.com/medischedule/medischedule-server/internal/assist"
	"github.com/medischedule/medischedule-server/internal/booking"
	"github.com/medischedule/medischedule-server/internal/calls"
	"github.com/medischedule/medischedule-server/internal/clinic"
	appconfig "github.com/medischedule/medischedule-server/internal/config"
	"github.com/medischedule/medischedule-server/internal/http/handlers"
	"github.com/medischedule/medischedule-server/internal/observability/metrics"
	"github.com/medischedule/medischedule-server/internal/store"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting medischedule API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
	)

	// Select store backend
	var dataStore store.Store
	switch cfg.StoreBackend {
	case "redis":
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		dataStore = store.NewRedisStore(rdb)
	case "memory":
		dataStore = store.NewMemoryStore()
	default:
		logger.Error("unknown store backend", "backend", cfg.StoreBackend)
		os.Exit(1)
	}

	// Seed the demo dataset on first boot
	gen := store.NewGenerator(rand.NewSource(time.Now().UnixNano()), time.Now())
	patients := gen.Patients(cfg.SeedPatients)
	appointments := gen.Appointments(patients, cfg.SeedAppointments)
	seeded, err := dataStore.SeedIfEmpty(context.Background(), patients, appointments)
	if err != nil {
		logger.Error("failed to seed store", "error", err)
		os.Exit(1)
	}
	if seeded {
		logger.Info("seeded demo dataset",
			"patients", len(patients),
			"appointments", len(appointments),
		)
	}

	// Metrics
	promRegistry := prometheus.NewRegistry()
	callMetrics := metrics.NewCallMetrics(promRegistry)

	// Call registry and outbound voice client
	registry := calls.NewRegistry()

	var initiator calls.CallInitiator
	if cfg.VapiAPIKey != "" {
		vapiClient, err := calls.NewVapiClient(calls.VapiClientConfig{
			APIKey:        cfg.VapiAPIKey,
			AssistantID:   cfg.VapiAssistantID,
			PhoneNumberID: cfg.VapiPhoneNumberID,
			BaseURL:       cfg.VapiBaseURL,
			Logger:        logger,
		})
		if err != nil {
			logger.Error("failed to configure vapi client", "error", err)
			os.Exit(1)
		}
		initiator = vapiClient
	} else {
		logger.Warn("VAPI_API_KEY not set, outbound calls disabled")
	}

	// Transcript analyzer and Q&A generator: Gemini when a key is present,
	// simulated otherwise
	var analyzer calls.Analyzer
	var generator assist.Generator
	analyzerName := "static"
	if cfg.GeminiAPIKey != "" {
		gemini, err := calls.NewGeminiAnalyzer(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to configure gemini analyzer", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		analyzer = gemini
		analyzerName = "gemini"

		geminiGen, err := assist.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to configure gemini generator", "error", err)
			os.Exit(1)
		}
		defer geminiGen.Close()
		generator = geminiGen
	} else {
		logger.Info("GEMINI_API_KEY not set, using simulated transcript analysis and Q&A")
		analyzer = calls.NewStaticAnalyzer()
		generator = assist.NewStaticGenerator()
	}

	gateway := calls.NewGateway(calls.GatewayConfig{
		Registry:  registry,
		Initiator: initiator,
		Logger:    logger,
		Metrics:   callMetrics,
	})

	bookingService := booking.NewService(booking.ServiceConfig{
		Store:        dataStore,
		Registry:     registry,
		Analyzer:     analyzer,
		AnalyzerName: analyzerName,
		Logger:       logger,
		Metrics:      callMetrics,
	})

	// Setup router
	r := router.New(&router.Config{
		Logger:              logger,
		PatientsHandler:     handlers.NewPatientsHandler(dataStore, logger),
		AppointmentsHandler: handlers.NewAppointmentsHandler(dataStore, logger),
		CallLogsHandler:     handlers.NewCallLogsHandler(dataStore, logger),
		CallGateway:         gateway,
		BookingService:      bookingService,
		DashboardHandler:    clinic.NewDashboardHandler(clinic.NewStatsService(dataStore), logger),
		AssistHandler:       assist.NewHandler(assist.NewRAGService(generator, logger), assist.NewChatbot(), logger),
		MetricsHandler:      promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	// Optional janitor for completed call records
	janitorCtx, cancelJanitor := context.WithCancel(context.Background())
	defer cancelJanitor()
	if cfg.CallRetention > 0 {
		logger.Info("call record eviction enabled", "retention", cfg.CallRetention.String())
		go gateway.RunJanitor(janitorCtx, cfg.CallRetention)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if url := cfg.VapiWebhookURL(); url != "" {
		logger.Info("point your Vapi assistant webhook at this URL", "url", url)
	} else {
		logger.Warn("PUBLIC_BASE_URL not set, Vapi webhooks cannot reach this server")
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

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
