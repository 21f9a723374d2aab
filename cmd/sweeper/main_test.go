package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/board"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"board": {"cols": 9, "rows": 9, "bombs": 10}}`), 0o600))

	require.NoError(t, flag.Set("config", path))
	require.NoError(t, flag.Set("b", "12"))
	require.NoError(t, flag.Set("cell", "30"))

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, board.Config{Cols: 9, Rows: 9, Bombs: 12, CellSize: 30}, cfg.BoardConfig())

	require.NoError(t, flag.Set("bombs", "81"))
	_, err = loadConfig()
	assert.ErrorIs(t, err, board.ErrInvalidConfig)
}
