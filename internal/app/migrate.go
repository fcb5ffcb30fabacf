package app

import (
	"context"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/repository/task/postgres"

	"go.uber.org/zap"
)

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// RunMigrations применяет (up) или откатывает (down) схему и закрывает пул.
func RunMigrations(ctx context.Context, cfg *config.Config, direction string) error {
	if cfg.Repository.Type != config.RepositoryPostgres {
		return fmt.Errorf("миграции доступны только для postgres, задан %q", cfg.Repository.Type)
	}
	if direction != MigrateUp && direction != MigrateDown {
		return fmt.Errorf("неизвестное направление миграции %q", direction)
	}

	storage, err := postgres.New(ctx, cfg.Database.URL, poolOptions(cfg.Database))
	if err != nil {
		return fmt.Errorf("подключение к PostgreSQL: %w", err)
	}
	defer storage.Close()

	logger.Info("App: Запуск миграций", zap.String("direction", direction))

	if direction == MigrateDown {
		return storage.Down(ctx)
	}
	return storage.Migrate(ctx)
}
