package cache

import (
	"hoyspace-api/config"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeCache opens the response cache described by cfg.
func InitializeCache(cfg config.CacheConfig) (cache.Cache, error) {
	c, err := cache.New(cache.Config{
		Type:          cfg.Type,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Error("Failed to initialize cache", zap.Error(err), zap.String("type", cfg.Type))
		return nil, err
	}
	logger.Info("Cache initialized", zap.String("type", cfg.Type), zap.String("addr", cfg.RedisAddr))
	return c, nil
}
