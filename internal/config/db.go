package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// NewDB opens a single-connection pool; a run never has more than one query in flight.
func NewDB(ctx context.Context, dsn string, debug bool, lg zerolog.Logger) (*sql.DB, error) {

	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	// verify connectivity early (fail fast)
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if debug {
		// prove we're connected to expected server/user/db (no secrets)
		var who, dbname, ver string
		_ = db.QueryRowContext(pctx, "SELECT current_user").Scan(&who)
		_ = db.QueryRowContext(pctx, "SELECT current_database()").Scan(&dbname)
		_ = db.QueryRowContext(pctx, "SHOW server_version").Scan(&ver)

		lg.Debug().
			Str("db_user", who).
			Str("db_name", dbname).
			Str("server_version", ver).
			Msg("db connected")
	}

	return db, nil
}
