// Package store implements the scheduler's persistence ports on
// PostgreSQL via pgx.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/team-final-project-3/be-temucs-sub000/internal/scheduling"
)

func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// mapErr folds pgx-level failures into the core taxonomy: serialization
// aborts and unique violations (duplicate ticket number under a race)
// become retryable conflicts; everything else stays opaque.
func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "23505":
			return fmt.Errorf("%s: %w", pgErr.Code, scheduling.ErrConflict)
		}
	}
	return err
}

var errNoRows = pgx.ErrNoRows
