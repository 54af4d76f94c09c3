package app

import (
	"context"
	"fmt"
	"focusFlow/internal/config"
	"focusFlow/internal/logger"
	"focusFlow/internal/repository/snapshot/inmemory"
	"focusFlow/internal/repository/snapshot/local"
	"focusFlow/internal/repository/snapshot/postgres"
	"focusFlow/internal/repository/snapshot/s3"
	"focusFlow/internal/service"

	"go.uber.org/zap"
)

type Store interface {
	service.SnapshotStore
	Close()
}

var (
	_ Store = (*inmemory.SnapshotStorage)(nil)
	_ Store = (*local.Storage)(nil)
	_ Store = (*postgres.Storage)(nil)
	_ Store = (*s3.Storage)(nil)
)

// NewStore выбирает хранилище снимков по конфигурации
func NewStore(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	logger.Info("App: Выбор хранилища", zap.String("type", cfg.Type), zap.String("key", cfg.Key))

	switch cfg.Type {
	case config.StorageMemory:
		return inmemory.NewSnapshotStorage(cfg.Key), nil
	case config.StorageLocal:
		store, err := local.New(cfg.Local.BaseDir, cfg.Key)
		if err != nil {
			return nil, err
		}
		logger.Info("App: Снимок хранится в файле", zap.String("path", store.Path()))
		return store, nil
	case config.StoragePostgres:
		if err := postgres.Migrate(cfg.Postgres.URL); err != nil {
			return nil, fmt.Errorf("миграции postgres: %w", err)
		}
		store, err := postgres.New(ctx, cfg.Postgres, cfg.Key)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageS3:
		store, err := s3.New(ctx, cfg.S3, cfg.Key)
		if err != nil {
			return nil, err
		}
		logger.Info("App: Снимок хранится в S3", zap.String("object", store.ObjectKey()))
		return store, nil
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища %q", cfg.Type)
	}
}
