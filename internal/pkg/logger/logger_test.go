package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}

func TestConfigureJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	Configure(Config{Level: InfoLevel, Output: &buf})
	Debug().Msg("hidden")
	child := WithField("rollno", "21CS042")
	child.Info().Msg("student logged in")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "student logged in", entry["message"])
	assert.Equal(t, "21CS042", entry["rollno"])
	assert.Equal(t, "info", entry["level"])
}

func TestConfigureAddsService(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	Configure(Config{Level: ParseLevel("warn"), Output: &buf, Service: "courseportal"})
	Info().Msg("hidden")
	Warn().Msg("store ping failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "courseportal", entry["service"])
	assert.Equal(t, "warn", entry["level"])
}
