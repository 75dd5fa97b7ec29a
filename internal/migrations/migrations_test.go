package migrations

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(files, "sql")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	body, err := io.ReadAll(up)
	require.NoError(t, err)

	sql := string(body)
	for _, want := range []string{"CREATE TABLE IF NOT EXISTS bookings", "confirmation         TEXT NOT NULL UNIQUE", "available_seats >= 0"} {
		assert.True(t, strings.Contains(sql, want), "missing %q", want)
	}

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	down.Close()
}

func TestRun_UnknownAction(t *testing.T) {
	err := Run("pgx5://localhost/none", "sideways")
	assert.Error(t, err)
}

func TestValidAction(t *testing.T) {
	for _, a := range []string{ActionUp, ActionDown, ActionStepUp, ActionDrop} {
		assert.True(t, ValidAction(a))
	}
	assert.False(t, ValidAction("seed"))
}
