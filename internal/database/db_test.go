package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"00001_accounts.sql", "00002_admin_sessions.sql"}, names)

	for _, name := range names {
		body, err := fs.ReadFile(migrations, "migrations/"+name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestMigrate(t *testing.T) {
	original := gooseUp
	t.Cleanup(func() { gooseUp = original })

	t.Run("runs goose against the migrations dir", func(t *testing.T) {
		var gotDir string
		gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
			gotDir = dir
			return nil
		}

		db := &DB{DB: sqlx.NewDb(nil, "postgres")}
		require.NoError(t, db.Migrate(context.Background()))
		assert.Equal(t, "migrations", gotDir)
	})

	t.Run("wraps goose failure", func(t *testing.T) {
		gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
			return errors.New("boom")
		}

		db := &DB{DB: sqlx.NewDb(nil, "postgres")}
		err := db.Migrate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run migrations")
	})
}
