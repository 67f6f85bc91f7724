package main

import (
	"github.com/tofaramususa/fastapi-production-api/internal/config"
	"github.com/tofaramususa/fastapi-production-api/internal/infra/db"
	httpinfra "github.com/tofaramususa/fastapi-production-api/internal/infra/http"
	"github.com/tofaramususa/fastapi-production-api/internal/log"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger := log.Logger()
	defer logger.Sync()

	store, err := db.NewStore(cfg)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}
	if err := store.Migrate(); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	srv := httpinfra.NewServer(cfg, store)
	logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Run(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
