package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nzvengeance/skylog/internal/api"
	"github.com/nzvengeance/skylog/internal/catalog"
	"github.com/nzvengeance/skylog/internal/config"
	"github.com/nzvengeance/skylog/internal/database"
	"github.com/nzvengeance/skylog/internal/game"
	"github.com/nzvengeance/skylog/internal/llm"
	"github.com/nzvengeance/skylog/internal/narrative"
	syncsvc "github.com/nzvengeance/skylog/internal/sync"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load config
	cfg := config.Load()

	// Setup logging
	setupLogging(cfg)

	log.Info().Str("env", cfg.AppEnv).Msg("SkyLog starting up")

	// Connect store
	store, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open store")
	}
	defer store.Close()

	// Narrative generator, offline when no key is configured
	narrator := narrative.NewGenerator(nil, "")
	if cfg.LLMAPIKey != "" {
		client, err := llm.NewClient(cfg.LLMProvider, cfg.LLMAPIKey)
		if err != nil {
			log.Warn().Err(err).Str("provider", cfg.LLMProvider).Msg("narrative falls back to built-in entries")
		} else {
			model := cfg.LLMModel
			if model == "" {
				model = llm.DefaultModel(cfg.LLMProvider)
			}
			narrator = narrative.NewGenerator(client, model)
			log.Info().Str("provider", cfg.LLMProvider).Str("model", model).Msg("narrative generation enabled")
		}
	}

	// Restore the game
	session := game.NewSession(cfg, catalog.Default(), store, narrator)
	report, err := session.Hydrate(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to restore game")
	}
	if report != nil {
		log.Info().
			Int("flights", report.FlightsCompleted).
			Int("coins", report.CoinsEarned).
			Dur("away", report.OfflineDuration).
			Msg("offline progress applied")
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		session.Loop(loopCtx)
	}()

	// Create autosave scheduler
	scheduler := syncsvc.NewScheduler(session, cfg)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	// Create API server
	srv := api.NewServer(session, cfg, scheduler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("port", cfg.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	stopLoop()
	<-loopDone

	// Final save happens here
	scheduler.Stop()

	log.Info().Msg("SkyLog stopped")
}

func setupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}
