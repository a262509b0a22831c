// Command migrate creates or updates the database schema and exits.
package main

import (
	"flag"

	"github.com/joho/godotenv"
	"github.com/mx-space/sitecms/internal/config"
	"github.com/mx-space/sitecms/internal/database"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	flag.Parse()
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if err := database.EnsureSchema(cfg, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("schema is up to date", zap.String("driver", cfg.Database.Driver))
}
