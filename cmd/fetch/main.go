// Command fetch runs a single ingestion pass from the command line. It is
// the manual counterpart of the cron worker: useful for backfills, for
// testing provider credentials, and for ad-hoc topic searches.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	pgRepo "newsdesk/internal/infra/adapter/persistence/postgres"
	"newsdesk/internal/infra/db"
	"newsdesk/internal/infra/provider"
	"newsdesk/internal/observability/logging"
	"newsdesk/internal/usecase/aggregate"
)

func main() {
	job := flag.String("job", "top", "ingestion job to run: top, search, or sources")
	query := flag.String("query", "", "search query (required for -job search)")
	category := flag.String("category", "", "restrict top headlines to a category")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	sequential := flag.Bool("sequential", false, "run providers one at a time")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	if *job == "search" && *query == "" {
		fmt.Fprintln(os.Stderr, "error: -query is required for -job search")
		flag.Usage()
		os.Exit(2)
	}

	database := db.Open()
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	srcRepo := pgRepo.NewSourceRepo(database)
	artRepo := pgRepo.NewArticleRepo(database)

	cfg := provider.LoadConfig()
	providers := cfg.Build(srcRepo, artRepo)
	if len(providers) == 0 {
		logger.Error("no providers enabled, set at least one provider API key")
		os.Exit(1)
	}

	svc := &aggregate.Service{
		Providers:  providers,
		Sources:    srcRepo,
		Concurrent: !*sequential,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	params := provider.Params{}
	if *category != "" {
		params["category"] = *category
	}

	start := time.Now()
	switch *job {
	case "top":
		articles := svc.FetchTopArticles(ctx, params)
		fmt.Printf("ingested %d articles from %d providers in %s\n",
			len(articles), len(providers), time.Since(start).Round(time.Millisecond))
	case "search":
		articles := svc.SearchArticles(ctx, *query, params)
		fmt.Printf("ingested %d articles for %q from %d providers in %s\n",
			len(articles), *query, len(providers), time.Since(start).Round(time.Millisecond))
	case "sources":
		sources := svc.FetchSources(ctx, params)
		fmt.Printf("refreshed %d sources from %d providers in %s\n",
			len(sources), len(providers), time.Since(start).Round(time.Millisecond))
	default:
		fmt.Fprintf(os.Stderr, "error: unknown job %q\n", *job)
		flag.Usage()
		os.Exit(2)
	}
}
