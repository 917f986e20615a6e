package db

import (
	"context"
	"database/sql"
	"projecthub/internal/config"
	"projecthub/internal/logger"
	"projecthub/internal/migrations"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// NewPostgresConnection подключается к единственной настроенной базе.
// Несколько попыток с паузой, дальше — фатальная ошибка: без хранилища
// сервер запросы принимать не должен.
func NewPostgresConnection(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()

	var pool *pgxpool.Pool
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.New(context.Background(), dsn)
		if err == nil {
			err = pool.Ping(context.Background())
			if err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Log.Warn("Не удалось подключиться к Postgres, повтор",
			zap.String("dsn", cfg.GetDSNSafe()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(connectBackoff)
	}

	return nil, err
}

// RunMigrations применяет встроенные goose-миграции через stdlib-адаптер pgx.
func RunMigrations(cfg *config.Config) error {
	sqlDB, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.Up(sqlDB, ".")
}
