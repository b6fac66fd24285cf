package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipment-emissions-service/internal/config"
)

func TestNewJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(config.LoggingConfig{Level: "info", Format: "json"}, &buf), "api")

	l.Info().Msg("hello")
	l.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "hello", entry["message"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LoggingConfig{Level: "chatty", Format: "json"}, &buf)

	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	New(config.LoggingConfig{Level: "debug", Format: "console"}, &buf).Info().Msg("ready")
	assert.Contains(t, buf.String(), "ready")
	assert.NotContains(t, buf.String(), `"message"`)
}
