package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"newsdesk/internal/common/pagination"
	pgRepo "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/infra/provider"
	"newsdesk/internal/observability/logging"

	"newsdesk/internal/usecase/aggregate"
	artUC "newsdesk/internal/usecase/article"
	srcUC "newsdesk/internal/usecase/source"

	hhttp "newsdesk/internal/handler/http"
	harticle "newsdesk/internal/handler/http/article"
	hingest "newsdesk/internal/handler/http/ingest"
	"newsdesk/internal/handler/http/requestid"
	hsrc "newsdesk/internal/handler/http/source"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// .env is optional; containers pass real environment variables.
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

	version := getVersion()
	handler := setupServer(logger, database, version)

	runServer(logger, handler, version)
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	srcRepo := pgRepo.NewSourceRepo(database)
	artRepo := pgRepo.NewArticleRepo(database)

	paginationCfg := pagination.LoadFromEnv()
	srcSvc := &srcUC.Service{Repo: srcRepo}
	artSvc := &artUC.Service{Repo: artRepo, Config: paginationCfg}

	providerCfg := provider.LoadConfig()
	providers := providerCfg.Build(srcRepo, artRepo)
	logger.Info("providers configured", slog.Int("count", len(providers)))

	agg := &aggregate.Service{
		Providers:  providers,
		Sources:    srcRepo,
		Concurrent: true,
	}

	mux := http.NewServeMux()
	hsrc.Register(mux, srcSvc)
	harticle.Register(mux, artSvc, paginationCfg, logger)
	hingest.Register(mux, agg, logger)

	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Rate Limit → Recovery → Logging → Body Limit → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	rps, burst := loadRateLimitSettings(logger)
	limiter := hhttp.NewRateLimiter(rps, burst)
	logger.Info("rate limiting initialized",
		slog.Float64("requests_per_second", rps),
		slog.Int("burst", burst))

	chain := handler

	// Applied in reverse order (innermost to outermost).
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB limit
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = limiter.Limit(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// loadRateLimitSettings reads the inbound rate limit from the environment,
// falling back to 10 req/s with a burst of 20.
func loadRateLimitSettings(logger *slog.Logger) (float64, int) {
	rps := 10.0
	burst := 20

	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rps = f
		} else {
			logger.Warn("Invalid API_RATE_LIMIT, using default",
				slog.String("value", v),
				slog.Float64("default", rps))
		}
	}
	if v := os.Getenv("API_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			burst = n
		} else {
			logger.Warn("Invalid API_RATE_BURST, using default",
				slog.String("value", v),
				slog.Int("default", burst))
		}
	}
	return rps, burst
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
