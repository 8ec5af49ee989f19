package main

import (
	"net/http"

	"github.com/joho/godotenv"

	"insight-engine-go/internal/config"
	"insight-engine-go/internal/logger"
	"insight-engine-go/internal/narrative"
	"insight-engine-go/internal/pipeline"
	"insight-engine-go/internal/server"
	"insight-engine-go/internal/store"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "insight-engine-go").Info("starting service")

	cfg := config.Load()
	if err := cfg.EnsureDirs(); err != nil {
		log.WithField("error", err.Error()).Fatal("failed to create working directories")
	}

	summarizer := narrative.New(cfg, log.WithComponent("narrative"))
	if summarizer == nil {
		log.Info("no text-generation credential configured; narrative stage disabled")
	}

	pipe := pipeline.New(cfg, summarizer, log.WithComponent("pipeline"))
	srv := server.New(cfg, pipe, store.New(), log)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithField("error", err.Error()).Fatal("server terminated")
	}
}
