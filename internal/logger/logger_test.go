package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level Level, write func(l *Logger)) []LogEntry {
	t.Helper()

	path := filepath.Join(t.TempDir(), "log.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)

	write(New(level, f))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerStructuredOutput(t *testing.T) {
	entries := captureLogs(t, LevelInfo, func(l *Logger) {
		l.Info("fetching competitions", Fields{"year": 2024, "type": "alla"})
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "fetching competitions", entries[0].Message)
	assert.Equal(t, float64(2024), entries[0].Fields["year"])
	assert.Equal(t, "alla", entries[0].Fields["type"])
	assert.NotEmpty(t, entries[0].Timestamp)
}

func TestLoggerLevelFiltering(t *testing.T) {
	entries := captureLogs(t, LevelWarn, func(l *Logger) {
		l.Debug("dropped", nil)
		l.Info("dropped", nil)
		l.Warn("kept", nil)
		l.Error("kept too", nil, os.ErrNotExist)
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "ERROR", entries[1].Level)
	assert.Equal(t, os.ErrNotExist.Error(), entries[1].Error)
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("portal.fetches")
	m.IncrCounter("portal.fetches")
	m.IncrCounter("results.competitions_discarded")

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)
	assert.Equal(t, int64(2), counters["portal.fetches"])
	assert.Equal(t, int64(1), counters["results.competitions_discarded"])
}

func TestMetricsTimings(t *testing.T) {
	m := NewMetrics()
	m.RecordTiming("portal.fetch", 100*time.Millisecond)
	m.RecordTiming("portal.fetch", 300*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})
	stats, ok := timings["portal.fetch"]
	require.True(t, ok)
	assert.Equal(t, 2, stats["count"])
	assert.Equal(t, "400ms", stats["total"])
	assert.Equal(t, "200ms", stats["average"])
	assert.Equal(t, "100ms", stats["min"])
	assert.Equal(t, "300ms", stats["max"])
}
