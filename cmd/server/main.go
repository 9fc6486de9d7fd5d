package main

import (
	"context"

	"github.com/kindredapp/kindred-backend/internal/app"
	"github.com/kindredapp/kindred-backend/internal/cache"
	"github.com/kindredapp/kindred-backend/internal/config"
	"github.com/kindredapp/kindred-backend/internal/db"
	"github.com/kindredapp/kindred-backend/internal/logger"
	"github.com/kindredapp/kindred-backend/internal/notify"
	"github.com/kindredapp/kindred-backend/internal/server"
	"github.com/kindredapp/kindred-backend/internal/service/chat"
	"github.com/kindredapp/kindred-backend/internal/service/connection"
	"github.com/kindredapp/kindred-backend/internal/service/explore"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Init real-time push
	notifier := notify.NewSocketNotifier(log)

	appCtx := app.New(database, redisCache, notifier, log)

	registrars := []server.Registrar{
		explore.NewRegistrar(appCtx),
		connection.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, notifier.Server(), registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
