package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"planie.app/api/common/logger"
	"planie.app/api/core/config"
	"planie.app/api/core/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	slog.SetDefault(logger.NewTextLogger(os.Stderr, slog.LevelInfo))
	dbCfg := config.LoadDatabase()

	dir, err := migrate.ParseDirection(*direction)
	if err != nil {
		slog.Error("invalid direction", "error", err)
		os.Exit(2)
	}

	if err := migrate.Run(dbCfg.DSN, dir); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("schema already up to date", "direction", dir)
			return
		}
		slog.Error("migration failed", "error", err, "direction", dir)
		os.Exit(1)
	}

	slog.Info("migrations applied", "direction", dir)
}
