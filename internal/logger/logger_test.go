package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool
	}{
		{"info message", LevelInfo, "fetching", Fields{"url": "http://example.com"}, nil, true},
		{"debug below threshold", LevelDebug, "parsed", nil, nil, false},
		{"error with err", LevelError, "search failed", nil, errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(LevelInfo, &buf).log(tt.level, tt.message, tt.fields, tt.err)
			assert.Equal(t, tt.want, buf.Len() > 0)
		})
	}
}

func TestLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	New(LevelDebug, &buf).Error("search failed", Fields{"url": "http://example.com", "rows": 3}, errors.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "search failed", entry["msg"])
	assert.Equal(t, "http://example.com", entry["url"])
	assert.Equal(t, float64(3), entry["rows"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"info doesn't log at warn", LevelWarn, LevelInfo, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(tt.minLevel, &buf).log(tt.logLevel, "test", nil, nil)
			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hypo-search.log")

	cleanup, err := Setup(Config{Level: "info", FilePath: path, MaxSizeMB: 1})
	require.NoError(t, err)
	defer SetDefault(New(LevelWarn, os.Stderr))

	Info("written to file", Fields{"k": "v"})
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("fetch.request")
	m.IncrCounter("fetch.request")
	m.IncrCounter("fetch.request")

	counters := m.GetSnapshot()["counters"].(map[string]int64)
	assert.Equal(t, int64(3), counters["fetch.request"])
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()
	m.SetGauge("catalog.rows", 12)
	m.SetGauge("catalog.rows", 40)

	gauges := m.GetSnapshot()["gauges"].(map[string]float64)
	assert.Equal(t, 40.0, gauges["catalog.rows"])
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()
	m.RecordTiming("fetch.request", 100*time.Millisecond)
	m.RecordTiming("fetch.request", 200*time.Millisecond)
	m.RecordTiming("fetch.request", 150*time.Millisecond)

	timings := m.GetSnapshot()["timings"].(map[string]map[string]interface{})
	timing := timings["fetch.request"]
	assert.Equal(t, 3, timing["count"])
	assert.Equal(t, "100ms", timing["min"])
	assert.Equal(t, "200ms", timing["max"])
	assert.Equal(t, "150ms", timing["average"])
}

func TestPackageLevelFunctions(t *testing.T) {
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	IncrCounter("test")
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	assert.NotNil(t, GetMetricsSnapshot())
}
