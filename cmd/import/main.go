package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/imkonsowa/restaurant-recommender/catalog"
	"github.com/imkonsowa/restaurant-recommender/config"
	"github.com/imkonsowa/restaurant-recommender/models"
	flag "github.com/spf13/pflag"
)

func main() {
	cfg := config.LoadConfig()
	slog.SetDefault(cfg.Log.Logger(os.Stderr))

	path := flag.String("csv", cfg.Catalog.Path, "cleaned catalog CSV to import")
	truncate := flag.Bool("truncate", false, "delete existing restaurants before importing")
	batchSize := flag.Int("batch-size", 500, "rows per insert statement")
	flag.Parse()

	if *batchSize <= 0 {
		log.Fatal("batch-size must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := catalog.LoadCSV(*path)
	if err != nil {
		log.Fatal("failed to read catalog:", err)
	}
	slog.Info("read catalog", "path", *path, "records", len(records))

	db, err := catalog.OpenPostgres(cfg.Postgres.ConnStr())
	if err != nil {
		log.Fatal(err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.Restaurant{}); err != nil {
		log.Fatal("failed to migrate restaurants table:", err)
	}

	if err := catalog.Import(ctx, db, records, *batchSize, *truncate); err != nil {
		log.Fatal(err)
	}

	slog.Info("import complete", "records", len(records), "truncated", *truncate)
}
