package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresDB создает новый пул соединений PostgreSQL и проверяет соединение
func NewPostgresDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfgPool, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: could not parse config: %w", err)
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, cfgPool)
	if err != nil {
		return nil, fmt.Errorf("postgres: could not create pool: %w", err)
	}

	// Проверяем соединение с базой данных
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}

	return dbpool, nil
}
