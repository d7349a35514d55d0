package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the .env file at path on a best-effort basis: a
// missing file is logged and ignored so deployments that inject
// environment variables directly (no .env on disk) still start cleanly.
func LoadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", path, "error", err)
		return
	}
	slog.Info("loaded environment from .env file", "path", path)
}
