package main

import (
	"context"

	"github.com/oggyb/matchmaker/internal/app"
	"github.com/oggyb/matchmaker/internal/cache"
	"github.com/oggyb/matchmaker/internal/config"
	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/logger"
	"github.com/oggyb/matchmaker/internal/notify"
	"github.com/oggyb/matchmaker/internal/server"
	authsvc "github.com/oggyb/matchmaker/internal/service/auth"
	"github.com/oggyb/matchmaker/internal/service/clients"
	"github.com/oggyb/matchmaker/internal/service/match"
	"github.com/oggyb/matchmaker/internal/storage"
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

	photos, err := storage.NewPhotoStore(cfg.Upload.Dir, cfg.Upload.MaxSize, cfg.Upload.Watermark)
	if err != nil {
		log.Error("failed to init photo store", "err", err)
		return
	}
	notifier := notify.NewFileNotifier(cfg.Upload.EmailOutDir)

	appCtx := app.New(database, redisCache, log, cfg)

	registrars := []server.Registrar{
		authsvc.NewRegistrar(appCtx, photos),
		clients.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx, notifier),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
