package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/tapeball/cricket-scoring-service/internal/config"
	"github.com/tapeball/cricket-scoring-service/internal/handler"
	"github.com/tapeball/cricket-scoring-service/internal/logger"
	"github.com/tapeball/cricket-scoring-service/internal/model"
	"github.com/tapeball/cricket-scoring-service/internal/repository"
	"github.com/tapeball/cricket-scoring-service/internal/repository/memory"
	"github.com/tapeball/cricket-scoring-service/internal/repository/postgres"
	"github.com/tapeball/cricket-scoring-service/internal/service"
	"github.com/tapeball/cricket-scoring-service/internal/stream"
)

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	// Pick the storage backend
	var (
		matches repository.MatchRepository
		pinger  repository.Pinger
	)
	switch cfg.Storage {
	case "memory":
		matches = memory.NewMatchRepository()
		pinger = memory.NewPinger()
		appLogger.Warn().Msg("Using in-memory storage; matches will not survive a restart")
	default:
		connectPgx, err := repository.New(context.Background(), cfg, &appLogger)
		if err != nil {
			log.Fatalf("❌ Postgres connection failed: %v", err)
		}
		defer connectPgx.Close()

		if cfg.Postgres.RunMigrations {
			if err := repository.RunMigrations(repository.DSN(cfg.Postgres), &appLogger); err != nil {
				log.Fatalf("❌ Migrations failed: %v", err)
			}
		}
		matches = postgres.NewMatchRepository(connectPgx.Pool())
		pinger = postgres.NewPinger(connectPgx.Pool())
	}

	hub := stream.NewHub(appLogger)
	defaults := model.MatchConfig{
		OversPerInnings:   cfg.Match.OversPerInnings,
		PowerplayOvers:    cfg.Match.PowerplayOvers,
		MaxOversPerBowler: cfg.Match.MaxOversPerBowler,
	}
	matchSvc := service.NewMatchService(matches, hub, defaults, appLogger)

	if cfg.Logger.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.Register(router, pinger, matchSvc, hub)

	appLogger.Info().Msg("🚀 Service started")
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info().Str("addr", addr).Msg("Listening for scoring requests")
	if err := router.Run(addr); err != nil {
		log.Fatalf("❌ HTTP server failed: %v", err)
	}
}
