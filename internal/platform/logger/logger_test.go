package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchbridge/internal/platform/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json at warn drops info", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithWriter(&buf, config.LogConfig{Level: "warn", Format: "json"})
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown", "search_request_key", "SR-1")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "shown", entry["msg"])
		assert.Equal(t, "SR-1", entry["search_request_key"])
		assert.Equal(t, "searchbridge", entry["service"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := NewWithWriter(&buf, config.LogConfig{Level: "debug", Format: "text"})
		require.NoError(t, err)
		logger.Debug("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("rejects unknown level and format", func(t *testing.T) {
		_, err := NewWithWriter(&bytes.Buffer{}, config.LogConfig{Level: "loud"})
		assert.Error(t, err)
		_, err = NewWithWriter(&bytes.Buffer{}, config.LogConfig{Format: "xml"})
		assert.Error(t, err)
	})
}
