package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/reelhouse/cli/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFunctions_NoNilPointers(t *testing.T) {
	logger = nil

	assert.NotPanics(t, func() {
		Debug("test debug", "key", "value")
		Info("test info", "key", "value")
		Warn("test warn", "key", "value")
		Error("test error", "key", "value")
		Debug("message only")
	})
}

func TestInitWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, log.WarnLevel)
	t.Cleanup(func() { logger = nil })

	Debug("hidden", "post_id", "p1")
	Info("hidden too")
	Warn("rollback", "post_id", "p1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "rollback")
	assert.Contains(t, out, "post_id=p1")
}

func TestInitWritesToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "config.toml")))
	t.Cleanup(func() { logger = nil })

	Init(true)
	require.NotNil(t, GetLogger())
	assert.Equal(t, log.DebugLevel, GetLogger().GetLevel())

	Info("written", "reel_id", "r1")
}

func TestLoggerWithDifferentTypes(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, log.DebugLevel)
	t.Cleanup(func() { logger = nil })

	assert.NotPanics(t, func() {
		Debug("test", "string", "value", "int", 123, "float", 45.67, "bool", true, "nil", nil)
		Info("test", "items", []string{"a", "b"})
		Warn("test", "map", map[string]string{"key": "value"})
	})
	assert.NotEmpty(t, buf.String())
}
