package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	pgRepo "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/infra/provider"
	workerPkg "newsdesk/internal/infra/worker"
	"newsdesk/internal/observability/logging"
	"newsdesk/internal/usecase/aggregate"
)

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM sources LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Context for graceful shutdown of the auxiliary servers.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("ingest_timeout", workerConfig.IngestTimeout),
		slog.Bool("concurrent", workerConfig.Concurrent),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	svc := setupAggregateService(logger, database, workerConfig.Concurrent)

	startCronWorker(logger, svc, workerConfig, workerMetrics, healthServer)
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// setupAggregateService builds the provider adapters against the persistence
// layer and wraps them in the ingestion service.
func setupAggregateService(logger *slog.Logger, database *sql.DB, concurrent bool) *aggregate.Service {
	srcRepo := pgRepo.NewSourceRepo(database)
	artRepo := pgRepo.NewArticleRepo(database)

	cfg := provider.LoadConfig()
	providers := cfg.Build(srcRepo, artRepo)
	if len(providers) == 0 {
		logger.Error("no providers enabled, set at least one provider API key")
		os.Exit(1)
	}
	for _, p := range providers {
		logger.Info("provider enabled", slog.String("provider", p.Name()))
	}

	return &aggregate.Service{
		Providers:  providers,
		Sources:    srcRepo,
		Articles:   artRepo,
		Catalog:    srcRepo,
		Concurrent: concurrent,
	}
}

// startCronWorker starts the cron scheduler and runs the ingestion job periodically.
func startCronWorker(logger *slog.Logger, svc *aggregate.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runIngestJob(logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runIngestJob executes a single ingestion run: refresh the source catalog,
// then pull top articles from every enabled provider.
func runIngestJob(logger *slog.Logger, svc *aggregate.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	logger.Info("ingestion started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.IngestTimeout)
	defer cancel()

	sources := svc.FetchSources(ctx, provider.Params{})
	articles := svc.FetchTopArticles(ctx, provider.Params{})

	duration := time.Since(startTime)
	if err := ctx.Err(); err != nil {
		logger.Error("ingestion timed out", slog.Any("error", err), slog.Duration("duration", duration))
		metrics.RecordRun("failure")
		metrics.RecordRunDuration(duration.Seconds())
		return
	}

	metrics.RecordRun("success")
	metrics.RecordRunDuration(duration.Seconds())
	metrics.RecordArticlesIngested(len(articles))
	metrics.RecordLastSuccess()
	svc.RefreshCorpusGauges(ctx)

	logger.Info("ingestion completed",
		slog.Int("sources", len(sources)),
		slog.Int("articles", len(articles)),
		slog.Duration("duration", duration),
	)
}
