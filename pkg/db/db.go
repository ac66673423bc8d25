package db

import (
	"context"

	"github.com/LinkingTom/CustomIdP/internal/config"
	"github.com/LinkingTom/CustomIdP/pkg/errutils"
	"github.com/jackc/pgx/v5/pgxpool"
)

func OpenDB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, errutils.Wrap("failed to create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errutils.Wrap("failed to ping DB", err)
	}

	return pool, nil
}
