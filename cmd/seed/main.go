package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"movimenti/internal/backend"
	"movimenti/internal/config"
	"movimenti/internal/core"
)

// defaultCategories is the fixed list installed on first setup.
var defaultCategories = []core.Category{
	{Name: "Groceries", Color: "#4CAF50", Icon: "shopping-cart"},
	{Name: "Rent", Color: "#9C27B0", Icon: "home"},
	{Name: "Utilities", Color: "#2196F3", Icon: "bolt"},
	{Name: "Transport", Color: "#FF9800", Icon: "bus"},
	{Name: "Dining", Color: "#F44336", Icon: "utensils"},
	{Name: "Health", Color: "#E91E63", Icon: "heartbeat"},
	{Name: "Entertainment", Color: "#00BCD4", Icon: "film"},
	{Name: "Salary", Color: "#8BC34A", Icon: "wallet"},
	{Name: "Other", Color: "#607D8B", Icon: "tag"},
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	existing, err := result.Backend.ListCategories(ctx)
	if err != nil {
		logger.Error("Failed to list categories", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		logger.Info("Categories already present, nothing to seed", "count", len(existing))
		return
	}

	for _, c := range defaultCategories {
		created, err := result.Backend.CreateCategory(ctx, c)
		if err != nil {
			logger.Error("Failed to seed category", "error", err, "name", c.Name)
			os.Exit(1)
		}
		logger.Info("Seeded category", "id", created.ID, "name", created.Name)
	}

	logger.Info("Seed complete", "count", len(defaultCategories))
}
