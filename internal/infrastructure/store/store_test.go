package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/staff-auth/internal/infrastructure/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "users.db")}

	repo, closeFn, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(closeFn)

	assert.NoError(t, repo.Ping(context.Background()))
	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.StoreConfig{Driver: "cassandra"}, zerolog.Nop())
	assert.Error(t, err)
}
