// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"deathcards-server/internal/auth"
	"deathcards-server/internal/cache"
	"deathcards-server/internal/config"
	"deathcards-server/internal/game"
	"deathcards-server/internal/handlers"
	"deathcards-server/internal/store/postgres"
	"deathcards-server/internal/ws"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	auth.Init(cfg.JWTSecret, cfg.TokenTTL)

	hub := ws.NewHub(logger)

	ctx := context.Background()
	st, err := postgres.Connect(ctx, cfg.DatabaseURL(), hub)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	engine := game.New(st, logger)
	engine.Notifier = hub
	engine.CancelWindow = cfg.CancelWindow
	engine.CancelTick = cfg.CancelTick

	if cfg.RedisQueue != "" {
		history, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisQueue)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer history.Close()
		engine.History = history
	}

	srv := handlers.NewServer(engine, st, hub, logger)

	addr := ":" + cfg.Port
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
