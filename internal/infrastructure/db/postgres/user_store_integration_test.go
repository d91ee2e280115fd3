//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/baechuer/useradmin/internal/domain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'moderator', 'admin')),
	can_switch_view BOOLEAN NOT NULL DEFAULT FALSE,
	email_verified BOOLEAN NOT NULL DEFAULT FALSE,
	google_id TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

INSERT INTO users (id, email, name, password_hash, role) VALUES
	('u1', 'Ann@X.com', 'Ann', 'h1', 'user'),
	('u2', 'b@x.com', 'Bob', 'h2', 'admin');
`

// setupTestDatabase starts PostgreSQL in a container and returns a migrated pool.
func setupTestDatabase(t *testing.T) *sql.DB {
	ctx := context.Background()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := testcontainers.NewDockerClientWithOpts(ctx); err != nil {
		t.Skipf("Skipping integration test because Docker is unavailable: %v", err)
	}

	pg, err := tcpostgres.Run(ctx, "postgres:17",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, schemaSQL)
	require.NoError(t, err)
	return db
}

func TestIntegration_UpdateAndFind(t *testing.T) {
	store := NewUserStore(setupTestDatabase(t))
	defer store.Close()
	ctx := context.Background()
	admin := domain.RoleAdmin

	u, err := store.UpdateByEmail(ctx, " Ann@X.com ", domain.Changes{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, "Ann@X.com", u.Email)

	// idempotent
	again, err := store.UpdateByEmail(ctx, "Ann@X.com", domain.Changes{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, u.Role, again.Role)

	// plain TEXT column: matching is exact
	_, err = store.UpdateByEmail(ctx, "ann@x.com", domain.Changes{Role: &admin})
	assert.True(t, domain.Is(err, "user_not_found"))

	_, err = store.UpdateByEmail(ctx, "ghost@x.com", domain.Changes{Role: &admin})
	assert.True(t, domain.Is(err, "user_not_found"))

	sel, err := domain.ParseSelection("email,role")
	require.NoError(t, err)
	users, err := store.FindMany(ctx, sel)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ann@X.com", users[0].Email)
	assert.Equal(t, "admin", users[1].Role)
}

func TestIntegration_PasswordReset_WritesHashOnly(t *testing.T) {
	db := setupTestDatabase(t)
	store := NewUserStore(db)
	defer store.Close()
	ctx := context.Background()
	hash := "$2a$10$abcdefghijklmnopqrstuv"

	u, err := store.UpdateByEmail(ctx, "b@x.com", domain.Changes{PasswordHash: &hash})
	require.NoError(t, err)
	assert.Equal(t, hash, u.PasswordHash)
	assert.Equal(t, "admin", u.Role)

	var stored string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = 'u2'`).Scan(&stored))
	assert.Equal(t, hash, stored)
}
