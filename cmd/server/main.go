package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aggregion/dmp-registry/internal/handlers"
	infracache "github.com/aggregion/dmp-registry/internal/infrastructure/cache"
	"github.com/aggregion/dmp-registry/internal/infrastructure/config"
	"github.com/aggregion/dmp-registry/internal/infrastructure/database"
	"github.com/aggregion/dmp-registry/internal/infrastructure/metrics"
	"github.com/aggregion/dmp-registry/internal/repositories/postgres"
	"github.com/aggregion/dmp-registry/internal/services"
	"github.com/aggregion/dmp-registry/pkg/cache"
	"github.com/aggregion/dmp-registry/pkg/cache/memorycache"
)

const defaultEnv = "dev"

func main() {
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	log.Printf("Connected to database: %s@%s:%d/%s",
		cfg.Database.User,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database)

	// Script lookup cache and its LISTEN/NOTIFY invalidator
	var lookupCache cache.Cache
	var changeListener *infracache.ChangeListener
	if cfg.Cache.Enabled {
		lookupCache, err = memorycache.New(&memorycache.Config{
			MaxSizeBytes:  cfg.Cache.MaxMemoryBytes,
			DefaultTTL:    time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
			EnableMetrics: true,
		})
		if err != nil {
			log.Fatalf("Failed to create cache: %v", err)
		}

		changeListener = infracache.NewChangeListener(lookupCache, cfg.Database.ConnectionString())
		if err := changeListener.Start(); err != nil {
			log.Fatalf("Failed to start change listener: %v", err)
		}
		defer changeListener.Stop()
	}

	// Initialize repositories
	scriptRepo := postgres.NewPostgresScriptRepository(pg.DB)
	providerRepo := postgres.NewPostgresProviderRepository(pg.DB)
	serviceRepo := postgres.NewPostgresServiceRepository(pg.DB)
	trustRepo := postgres.NewPostgresTrustRepository(pg.DB)
	approvalRepo := postgres.NewPostgresApprovalRepository(pg.DB)
	accessRepo := postgres.NewPostgresAccessRepository(pg.DB)
	enclaveRepo := postgres.NewPostgresEnclaveAccessRepository(pg.DB)
	cascadeRepo := postgres.NewPostgresCascadeRepository(pg.DB)

	// Initialize services
	auth := services.NewSelfAuthenticator()
	cacheTTL := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	scriptService := services.NewScriptService(scriptRepo, auth, lookupCache, cacheTTL)
	trustService := services.NewTrustService(trustRepo, providerRepo, auth)
	approvalService := services.NewApprovalService(approvalRepo, providerRepo, scriptService, auth)
	accessService := services.NewAccessService(accessRepo, providerRepo, scriptService, auth)
	enclaveService := services.NewEnclaveService(enclaveRepo, scriptService, auth)
	providerService := services.NewProviderService(providerRepo, serviceRepo, cascadeRepo, auth)

	// Metrics
	collector := metrics.NewCollector()
	if lookupCache != nil {
		collector.SetCache(lookupCache)
	}
	exporter := metrics.NewPrometheusExporter(collector)

	gaugeTicker := time.NewTicker(10 * time.Second)
	defer gaugeTicker.Stop()
	go func() {
		for range gaugeTicker.C {
			exporter.Update()
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}
	go func() {
		log.Printf("Metrics server listening on :%d", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	// API server
	router := handlers.NewRouter(
		scriptService,
		providerService,
		trustService,
		approvalService,
		accessService,
		enclaveService,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: metrics.Middleware(collector, exporter, router),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Registry server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Metrics server shutdown error: %v", err)
		}
		if changeListener != nil {
			if err := changeListener.Stop(); err != nil {
				log.Printf("Change listener stop error: %v", err)
			}
		}
		if err := pg.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}

		log.Println("Shutdown complete")
	}
}
