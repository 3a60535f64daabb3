package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Ping verifies database connectivity for the health endpoint.
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}
