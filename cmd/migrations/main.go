package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/elecciones/internal/config"
	"github.com/vncsmyrnk/elecciones/internal/logger"
)

var migrationsDir = filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

// Usage: migrations [db flags] <name>, e.g. "create_votes.up".
func main() {
	cfg, args, err := config.LoadDatabase("migrations", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	if len(args) < 1 {
		log.Error("a migration name is required")
		os.Exit(2)
	}
	migrationName := args[0]

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	fileName, err := migrationFile(migrationsDir, migrationName)
	if err != nil {
		log.Error("migration lookup failed", "name", migrationName, "error", err)
		os.Exit(1)
	}

	content, err := os.ReadFile(filepath.Join(migrationsDir, fileName))
	if err != nil {
		log.Error("failed to read migration", "file", fileName, "error", err)
		os.Exit(1)
	}

	if _, err := db.Exec(string(content)); err != nil {
		log.Error("failed to execute migration", "file", fileName, "error", err)
		os.Exit(1)
	}

	log.Info("migration executed", "file", fileName)
}

func migrationFile(dir, name string) (string, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^\d+_%s\.sql$`, regexp.QuoteMeta(name)))
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() && pattern.MatchString(e.Name()) {
			return e.Name(), nil
		}
	}
	return "", fmt.Errorf("migration %q not found in %s", name, dir)
}
