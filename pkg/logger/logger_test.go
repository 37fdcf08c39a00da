package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelWarn})

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN shown")
}

func TestLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelDebug, Format: FormatJSON})
	log.now = fixedClock

	log.With(Backend("file")).Error("save failed", Location("data.json"), Err(errors.New("disk full")))

	var entry LogEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "save failed", entry.Message)
	assert.Equal(t, "2024-03-01T12:00:00Z", entry.Timestamp)
	assert.Equal(t, "file", entry.Fields["backend"])
	assert.Equal(t, "data.json", entry.Fields["location"])
	assert.Equal(t, "disk full", entry.Fields["error"])
}

func TestLogger_TextEntrySortsAndQuotesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelInfo, Format: FormatText})
	log.now = fixedClock

	log.Info("loaded", Count(2), StudentName("Ada Lovelace"))

	line := strings.TrimSpace(buf.String())
	assert.Equal(t, `2024-03-01T12:00:00Z INFO loaded count=2 student="Ada Lovelace"`, line)
}

func TestLogger_WithDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(Options{Output: &buf, Level: LevelInfo})
	_ = parent.With(SessionID("abc"))

	parent.Info("plain")
	assert.NotContains(t, buf.String(), "session_id")
}

func TestNop(t *testing.T) {
	log := Nop()
	assert.False(t, log.Enabled(LevelError))
	log.Error("dropped")
}
