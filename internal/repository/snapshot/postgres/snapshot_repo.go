package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"focusFlow/internal/config"
	"focusFlow/internal/logger"
	repo "focusFlow/internal/repository"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const slowQuery = 100 * time.Millisecond

type Storage struct {
	pool *pgxpool.Pool
	key  string
}

func New(ctx context.Context, cfg config.DatabaseConfig, key string) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = int32(cfg.MinConnections)
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, key: key}, nil
}

// Migrate применяет встроенные миграции схемы
func Migrate(connString string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("источник миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(connString))
	if err != nil {
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("применение миграций: %w", err)
	}
	logger.Info("Repository: Миграции применены")
	return nil
}

// драйвер migrate для pgx/v5 зарегистрирован под схемой pgx5
func pgx5URL(connString string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(connString, prefix) {
			return "pgx5://" + strings.TrimPrefix(connString, prefix)
		}
	}
	return connString
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Load(ctx context.Context) ([]byte, error) {
	start := time.Now()

	query := `SELECT data
				FROM snapshots
				WHERE key = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить снимок", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение снимка: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return data, nil
}

// снимок заменяется целиком, версия строки растёт с каждой записью
func (s *Storage) Save(ctx context.Context, data []byte) error {
	start := time.Now()

	query := `INSERT INTO snapshots (key, data, created_at, updated_at)
				VALUES ($1, $2, NOW(), NOW())
				ON CONFLICT (key) DO UPDATE
				SET data = EXCLUDED.data,
					version = snapshots.version + 1,
					updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, s.key, data); err != nil {
		logger.Error("Repository: Не удалось сохранить снимок", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("сохранение снимка: %w", err)
	}

	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// Version возвращает число записей снимка, 0 если его ещё нет
func (s *Storage) Version(ctx context.Context) (int, error) {
	var version int
	err := s.pool.QueryRow(ctx, `SELECT version FROM snapshots WHERE key = $1`, s.key).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("получение версии снимка: %w", err)
	}
	return version, nil
}
