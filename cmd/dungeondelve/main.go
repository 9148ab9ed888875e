// Package main is the entry point for the dungeondelve explorer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/samdwyer/dungeondelve/internal/config"
	"github.com/samdwyer/dungeondelve/internal/game"
	"github.com/samdwyer/dungeondelve/internal/persist"
	"github.com/samdwyer/dungeondelve/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (defaults apply when omitted)")
	resume := flag.Bool("resume", false, "resume the most recent saved world")
	flag.Parse()

	// Load .env for local development; env vars may also be set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Sync()

	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Warn("telemetry setup failed, running without observability", zap.Error(err))
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error("telemetry shutdown failed", zap.Error(err))
			}
		}()
	}

	var store *persist.Store
	if cfg.Save.Path != "" {
		store, err = persist.Open(cfg.Save.Path)
		if err != nil {
			logger.Fatal("failed to open save store", zap.Error(err))
		}
		defer store.Close()
	}

	g, err := game.New(ctx, cfg, logger, store, *resume)
	if err != nil {
		logger.Fatal("failed to initialize game", zap.Error(err))
	}

	if err := g.Run(ctx); err != nil {
		logger.Fatal("game error", zap.Error(err))
	}
}

// newLogger builds a zap logger from the logging config. Output goes to a
// file because the terminal belongs to the UI.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}

// setupOTelEnv configures OTEL environment variables from our custom env
// vars. The endpoint and headers follow the Honeycomb convention when an
// API key is present.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_DUNGEONDELVE_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_DUNGEONDELVE_DATASET")
	if dataset == "" {
		dataset = "dungeondelve"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
