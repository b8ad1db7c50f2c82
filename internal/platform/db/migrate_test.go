package db

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNamesSorted(t *testing.T) {
	files := fstest.MapFS{
		"migrations/0002_leaves.sql": {Data: []byte("SELECT 2")},
		"migrations/0001_users.sql":  {Data: []byte("SELECT 1")},
		"migrations/README.md":       {Data: []byte("notes")},
	}
	names, err := migrationNames(files)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_users.sql", "0002_leaves.sql"}, names)
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := migrationNames(migrationFiles)
	require.NoError(t, err)
	require.NotEmpty(t, names)

	leaves, err := fs.ReadFile(migrationFiles, "migrations/0002_leaves.sql")
	require.NoError(t, err)
	sql := string(leaves)
	assert.True(t, strings.Contains(sql, "leaves_decision_check"))
	assert.True(t, strings.Contains(sql, "end_date >= start_date"))
}
