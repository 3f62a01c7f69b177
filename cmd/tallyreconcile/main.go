package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/elecciones/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/elecciones/internal/config"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
	"github.com/vncsmyrnk/elecciones/internal/core/services"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

// tallyreconcile rewrites candidates.vote_count from the votes table.
func main() {
	cfg, _, err := config.LoadDatabase("tallyreconcile", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	tallyService := services.NewTallyService(postgres.NewTallyRepository(db))

	log.Info("starting tally reconciliation")

	adjusted, err := tallyService.ReconcileAll(ctx)
	if err != nil {
		log.Error("tally reconciliation failed", "error", err)
		os.Exit(1)
	}

	for _, c := range domain.Categories {
		log.Info("category reconciled", "category", c, "adjusted", adjusted[c])
	}
	log.Info("tally reconciliation completed")
}
