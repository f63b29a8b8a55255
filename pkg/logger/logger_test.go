package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_InvalidLevel(t *testing.T) {
	assert.Error(t, Init("loud", "json", "stdout"))
}

func TestInit_File(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "btr.log")
	require.NoError(t, Init("info", "json", path))

	Info("sweep finished", zap.Int("candidates", 81))
	Debug("not written")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"sweep finished"`)
	assert.Contains(t, string(data), `"candidates":81`)
	assert.NotContains(t, string(data), "not written")
}

func TestWith(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	core, logs := observer.New(zap.InfoLevel)
	Log = zap.New(core)

	With(zap.String("remote", "10.0.0.1:5123")).Info("connection established")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "connection established", entry.Message)
	assert.Equal(t, "10.0.0.1:5123", entry.ContextMap()["remote"])
}
