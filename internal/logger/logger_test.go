package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		fields []zapcore.Field
		want   string
		known  bool
	}{
		{
			name:   "flow started",
			msg:    "Flow started",
			fields: []zapcore.Field{zap.String("flow", "token")},
			want:   "Starting token launch",
			known:  true,
		},
		{
			name:   "transaction confirmed shortens signature",
			msg:    "Transaction confirmed",
			fields: []zapcore.Field{zap.String("signature", "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnb")},
			want:   "5VERv8NM...jCJjBRnb",
			known:  true,
		},
		{
			name:  "unknown message passes through",
			msg:   "something else",
			want:  "something else",
			known: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := FormatMessage(tt.msg, tt.fields)
			assert.Equal(t, tt.known, known)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestFieldFilterCoreDropsFieldsOfKnownMessages(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(&FieldFilterCore{core: obsCore}).With(zap.String("flow", "market"))

	l.Info("Flow started")
	l.Info("unrelated", zap.Int("n", 3))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].Message, "Starting market launch")
	assert.Empty(t, entries[0].Context)
	assert.Equal(t, "unrelated", entries[1].Message)
	assert.Len(t, entries[1].Context, 2)
}

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launchpad.log")
	cfg := DefaultConfig()
	cfg.LogFile = path
	cfg.Console = false

	l, err := New(cfg)
	require.NoError(t, err)
	WithOperation(l, "token").Info("hello", zap.String("mint", "abc"))
	require.NoError(t, Sync(l))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"correlation_id"`)
	assert.Contains(t, string(data), `"operation":"token"`)
}

func TestFieldsToExtras(t *testing.T) {
	extras := fieldsToExtras([]zapcore.Field{
		zap.String("s", "v"),
		zap.Bool("b", true),
		zap.Int64("i", -4),
		zap.Duration("d", time.Second),
		zap.Error(errors.New("boom")),
	})
	assert.Equal(t, "v", extras["s"])
	assert.Equal(t, true, extras["b"])
	assert.Equal(t, int64(-4), extras["i"])
	assert.Equal(t, "1s", extras["d"])
	assert.Equal(t, "boom", extras["error"])
}
