// File: cmd/app/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ad-video-pipeline/internal/application"
	"ad-video-pipeline/internal/config"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/infra/logging"
	"ad-video-pipeline/internal/usecase"
)

// One-shot CLI: runs the whole pipeline for a single ad description and
// prints the produced artifact locators as JSON.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	description := flag.String("description", "", "ad description to produce a video for")
	flag.Parse()

	// .env is optional; real env vars win
	_ = godotenv.Load()

	if *description == "" {
		log.Fatalf("usage: %s -description \"your product\" [-config config.yaml]", os.Args[0])
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, *devMode)

	// Ctrl-C aborts the run mid-stage.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Warn().Msg("interrupt, cancelling run")
		cancel()
	}()

	app, err := application.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	progress := func(stage string, _ model.PipelineResult) {
		logger.Info().Str("stage", stage).Msg("stage started")
	}
	result, runErr := app.Pipeline.Run(ctx, *description, usecase.ProgressFunc(progress))

	// Print whatever was produced, even for a failed run.
	out, err := json.MarshalIndent(result, "", "  ")
	if err == nil {
		fmt.Println(string(out))
	}
	if runErr != nil {
		logger.Fatal().Err(runErr).Msg("pipeline run failed")
	}
	logger.Info().Str("final", result.Final.URI()).Msg("done")
}
