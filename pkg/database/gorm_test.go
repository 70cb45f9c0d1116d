package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// captureLogs installs a JSON slog default at info level for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		out = append(out, rec)
	}
	return out
}

func TestGormLogger_Levels(t *testing.T) {
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name      string
		logging   bool
		elapsed   time.Duration
		err       error
		wantLevel string
		wantMsg   string
	}{
		{name: "slow query", elapsed: time.Second, wantLevel: "WARN", wantMsg: "gorm slow query"},
		{name: "failed query", err: errors.New("boom"), wantLevel: "ERROR", wantMsg: "gorm query failed"},
		{name: "not found is quiet", err: gorm.ErrRecordNotFound},
		{name: "fast query without logging", elapsed: time.Millisecond},
		{name: "fast query with logging", logging: true, elapsed: time.Millisecond, wantLevel: "INFO", wantMsg: "gorm query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			l := NewGormLogger(Config{EnableLogging: tt.logging, SlowQueryThresholdMs: 100})

			l.Trace(ctx, time.Now().Add(-tt.elapsed), query, tt.err)

			recs := records(t, buf)
			if tt.wantLevel == "" {
				assert.Empty(t, recs)
				return
			}
			require.Len(t, recs, 1)
			assert.Equal(t, tt.wantLevel, recs[0]["level"])
			assert.Equal(t, tt.wantMsg, recs[0]["msg"])
			assert.Equal(t, "SELECT 1", recs[0]["sql"])
		})
	}
}

func TestGormLogger_SilentMode(t *testing.T) {
	buf := captureLogs(t)
	l := NewGormLogger(Config{}).LogMode(gormlogger.Silent)

	l.Trace(context.Background(), time.Now().Add(-time.Minute), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	assert.Empty(t, buf.String())
}
