package rtlog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledLoggerEventsAreSafeNoops(t *testing.T) {
	var l Logger
	require.Nil(t, l.Info())
	require.Nil(t, l.Error())
	// Chaining on a nil *Event must not panic.
	l.Info().Str("k", "v").Int("n", 1).Msg("dropped")
}

func TestLevelGatesWhatGetsWritten(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug().Msg("should not appear")
	l.Info().Msg("should not appear either")
	require.Zero(t, buf.Len())

	l.Warn().Str("field", "value").Msg("should appear")
	require.NotZero(t, buf.Len())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "value", decoded["field"])
	require.Equal(t, "should appear", decoded["message"])
}

func TestWithAddsComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo).With("pool")
	l.Info().Msg("hello")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "pool", decoded["component"])
}

func TestConfigureInstallsProcessWideDefault(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, LevelError)
	t.Cleanup(func() { Configure(nil, LevelDisabled) })

	Default().Error().Msg("boom")
	require.NotZero(t, buf.Len())
}
