package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"vidhub/pkg/config"
	"vidhub/pkg/database"
	"vidhub/pkg/utils"
)

// testPool connects to the local development database and applies the
// schema. Tests that need PostgreSQL skip when it is not running.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := database.NewPool(config.DatabaseConfig{
		Host:         "localhost",
		Port:         5432,
		User:         "vidhub",
		Password:     "vidhub",
		Database:     "vidhub",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		Timeout:      2 * time.Second,
	})
	if err != nil {
		t.Skipf("Skipping test: PostgreSQL not available: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile(filepath.Join("..", "..", "scripts", "schema.sql"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)
	return pool
}

// seedDBUser inserts a minimal user row. The generated id doubles as
// the username so rows from earlier runs never collide.
func seedDBUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	id := utils.NewUserID()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $1, $2, 'not-a-real-hash')`,
		id, id+"@example.com")
	require.NoError(t, err)
	return id
}

func seedDBVideo(t *testing.T, pool *pgxpool.Pool, ownerID string) string {
	t.Helper()
	id := utils.NewVideoID()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO videos (id, owner_id, title) VALUES ($1, $2, 'clip')`,
		id, ownerID)
	require.NoError(t, err)
	return id
}
