package app

import (
	"log/slog"

	"github.com/kindredapp/kindred-backend/internal/cache"
	"github.com/kindredapp/kindred-backend/internal/notify"
	"gorm.io/gorm"
)

// AppContext holds shared dependencies (DB, Redis, Notifier, Logger, etc.)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Notifier   notify.Notifier
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(db *gorm.DB, rdb *cache.RedisCache, notifier notify.Notifier, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Notifier:   notifier,
		Logger:     logger,
	}
}
