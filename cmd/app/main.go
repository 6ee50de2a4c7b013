package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subtrack/internal/config"
	"subtrack/internal/domain/ports/repository"
	pg "subtrack/internal/infra/db/postgres"
	"subtrack/internal/infra/db/sqlite"
	"subtrack/internal/infra/logging"
	"subtrack/internal/infra/metrics"
	red "subtrack/internal/infra/redis"
	"subtrack/internal/infra/sched"
	"subtrack/internal/infra/web"
	"subtrack/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed auth, console logs)")
	flag.Parse()

	// .env is optional; real deployments use the YAML config
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Storage ----
	var subRepo repository.SubscriptionRepository
	var entRepo repository.EntitlementRepository
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect failed")
		}
		defer pool.Close()
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("postgres schema setup failed")
		}
		subRepo = pg.NewSubscriptionRepo(pool)
		entRepo = pg.NewEntitlementRepo(pool)
	default:
		store, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		defer store.Close()
		subRepo = sqlite.NewSubscriptionRepo(store)
		entRepo = sqlite.NewEntitlementRepo(store)
	}

	// ---- Redis (optional) ----
	var rateLimiter *red.RateLimiter
	var summaryCache usecase.SummaryCache
	if cfg.Redis.Enabled {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
		summaryCache = red.NewSummaryCache(redisClient, cfg.Redis.TTL, logger)
	}

	// ---- Use cases ----
	entUC := usecase.NewEntitlementUseCase(entRepo, summaryCache, logger)
	ledgerUC := usecase.NewLedgerUseCase(subRepo, entUC, summaryCache, logger)
	statsUC := usecase.NewStatsUseCase(subRepo, entUC, summaryCache, logger)
	notifUC := usecase.NewNotificationUseCase(subRepo, logger)

	// Sanitize the entitlement on boot so a premium period that lapsed
	// while the app was down is downgraded before the first request.
	if _, err := entUC.Current(ctx); err != nil {
		logger.Fatal().Err(err).Msg("entitlement check failed")
	}

	// ---- Workers ----
	reminderWorker := sched.NewReminderWorker(cfg.Reminders.Interval, notifUC, logger)
	go func() { _ = reminderWorker.Run(ctx) }()
	sweeper := sched.NewEntitlementSweeper(1*time.Hour, entUC, logger)
	go func() { _ = sweeper.Run(ctx) }()

	// ---- API server ----
	srv := web.NewServer(ledgerUC, statsUC, entUC, notifUC, cfg.HTTP, rateLimiter, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: srv.Routes(),
	}
	go func() {
		logger.Info().Str("addr", apiServer.Addr).Msg("api listening")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("api server error")
		}
	}()

	// ---- Admin server (metrics + probes) ----
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	adminServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: adminMux,
	}
	go func() {
		logger.Info().Str("addr", adminServer.Addr).Msg("admin listening")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api shutdown error")
	}
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("admin shutdown error")
	}
}
