// Package main provides the entry point for the Strata modeling server.
package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/strata-studio/strata/domain/capabilities"
	"github.com/strata-studio/strata/domain/health"
	"github.com/strata-studio/strata/domain/models"
	"github.com/strata-studio/strata/domain/objects"
	"github.com/strata-studio/strata/domain/relationships"
	"github.com/strata-studio/strata/domain/systems"
	"github.com/strata-studio/strata/domain/taxonomy"
	"github.com/strata-studio/strata/internal/config"
	"github.com/strata-studio/strata/internal/database"
	"github.com/strata-studio/strata/internal/server"
	"github.com/strata-studio/strata/pkg/logger"
)

func main() {
	// Load .env if present (for local development). Load() won't overwrite
	// existing vars; .env.local takes precedence via Overload().
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	fx.New(
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		// Infrastructure modules
		logger.Module,
		config.Module,
		database.Module,
		server.Module,

		// Domain modules
		health.Module,
		systems.Module,
		taxonomy.Module,
		models.Module,
		objects.Module,
		relationships.Module,
		capabilities.Module,
	).Run()
}
