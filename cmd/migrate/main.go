package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/strata-studio/strata/internal/config"
	"github.com/strata-studio/strata/internal/migrate"
	"github.com/strata-studio/strata/pkg/logger"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: migrate <up|down|status|version>")
		flag.PrintDefaults()
	}
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		flag.Usage()
		os.Exit(1)
	}

	log := logger.NewLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Error("failed to load config", logger.Error(err))
		os.Exit(1)
	}

	sqldb, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		log.Error("failed to open database", logger.Error(err))
		os.Exit(1)
	}
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	ctx := context.Background()
	migrator := migrate.NewMigrator(db, log)

	switch command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "version":
		var v int64
		v, err = migrator.Version(ctx)
		if err == nil {
			log.Info("migration version", slog.Int64("version", v))
		}
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Error("migration failed", slog.String("command", command), logger.Error(err))
		os.Exit(1)
	}
}
