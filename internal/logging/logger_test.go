package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	logger, err := New(Config{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("session started")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), `"level":"info"`)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")
	logger, err := New(Config{Level: "warn", File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Warn("visible")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestDefaultFile(t *testing.T) {
	path := DefaultFile()
	assert.True(t, strings.HasPrefix(filepath.Base(path), "nacre-"))
	assert.True(t, strings.HasSuffix(path, ".log"))
}

func TestNewDefaultNeverNil(t *testing.T) {
	logger := NewDefault()
	require.NotNil(t, logger)
	logger.Info("usable")
}
