package db

import (
	"errors"
	"fmt"

	"github.com/tofaramususa/fastapi-production-api/internal/config"
	"github.com/tofaramususa/fastapi-production-api/internal/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var errDBUnavailable = errors.New("db unavailable")

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		log.Logger().Warn("POSTGRES_DSN not set, starting in no-db mode")
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Store{DB: gdb}, nil
}

// Migrate creates or updates the catalog tables. A no-db store skips it so
// the server can still serve health checks.
func (s *Store) Migrate() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.AutoMigrate(
		&FolderModel{},
		&ProductModel{},
		&FolderPermissionModel{},
	)
}
