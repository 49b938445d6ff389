package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"clicksign-esign/internal/config"
)

type Database struct {
	DB     *sql.DB
	logger *zap.Logger
}

// DSN builds the PostgreSQL connection string.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

func NewDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*Database, error) {
	db, err := sql.Open(cfg.Database.Driver, DSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected successfully",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	database := &Database{
		DB:     db,
		logger: logger,
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return database.Close()
		},
	})

	return database, nil
}

// migrations run in order on every start and must stay idempotent.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "create api_logs table",
		sql: `
	CREATE TABLE IF NOT EXISTS api_logs (
		id BIGSERIAL PRIMARY KEY,
		endpoint VARCHAR(512) NOT NULL,
		method VARCHAR(16) NOT NULL,
		request_body TEXT DEFAULT '',
		response_body TEXT DEFAULT '',
		status_code INTEGER NOT NULL,
		duration_ms BIGINT NOT NULL,
		failed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`,
	},
	{
		name: "create api_logs created_at index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_api_logs_created_at ON api_logs(created_at DESC);`,
	},
	{
		name: "create api_logs endpoint index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_api_logs_endpoint ON api_logs(endpoint);`,
	},
}

func (d *Database) migrate() error {
	for _, m := range migrations {
		if _, err := d.DB.Exec(m.sql); err != nil {
			return fmt.Errorf("failed to %s: %w", m.name, err)
		}
	}

	d.logger.Info("Database migrations completed successfully", zap.Int("count", len(migrations)))
	return nil
}

func (d *Database) Close() error {
	return d.DB.Close()
}

var Module = fx.Module("database",
	fx.Provide(NewDatabase),
)
