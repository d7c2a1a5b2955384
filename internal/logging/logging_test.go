package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.log")

	logger, err := New("warn", path)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Named("catalog").Warn("fetch products failed")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "catalog", entry["logger"])
	assert.Equal(t, "storefront", entry["service"])
	assert.Equal(t, "fetch products failed", entry["msg"])
}

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"", "debug", "INFO", "error"} {
		_, err := New(lvl, filepath.Join(t.TempDir(), "x.log"))
		assert.NoError(t, err, lvl)
	}

	_, err := New("chatty")
	assert.Error(t, err)
}
