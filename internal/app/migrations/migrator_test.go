package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(embedded, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		content, err := fs.ReadFile(embedded, migrationsDir+"/"+e.Name())
		require.NoError(t, err)
		body := string(content)
		assert.Contains(t, body, "-- +goose Up", e.Name())
		assert.Contains(t, body, "-- +goose Down", e.Name())
	}

	initial, err := fs.ReadFile(embedded, migrationsDir+"/00001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "students", "marks", "id_counters"} {
		assert.True(t, strings.Contains(string(initial), "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
	assert.Contains(t, string(initial), "ON marks (student_id, term, year)")
}
