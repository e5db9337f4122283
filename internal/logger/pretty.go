// internal/logger/pretty.go
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(ColorCyan + "[DEBUG]" + ColorReset)
	case zapcore.InfoLevel:
		enc.AppendString(ColorGreen + "[INFO]" + ColorReset)
	case zapcore.WarnLevel:
		enc.AppendString(ColorYellow + "[WARN]" + ColorReset)
	case zapcore.ErrorLevel:
		enc.AppendString(ColorRed + "[ERROR]" + ColorReset)
	case zapcore.FatalLevel:
		enc.AppendString(ColorRed + ColorBold + "[FATAL]" + ColorReset)
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// CreatePrettyLogger creates a console logger for interactive CLI runs.
// Known launch messages are rewritten into short human lines and their
// fields are dropped; everything else keeps its structured fields.
func CreatePrettyLogger(debug bool) *zap.Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(prettyEncoderConfig()),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(&FieldFilterCore{core: core})
}

// FormatMessage returns a friendly rendering of well-known log messages and
// reports whether the message was recognised.
func FormatMessage(msg string, fields []zapcore.Field) (string, bool) {
	switch {
	case strings.Contains(msg, "License validated"):
		return fmt.Sprintf("%s✓ License validated%s", ColorGreen, ColorReset), true

	case strings.Contains(msg, "Flow started"):
		return fmt.Sprintf("%s🚀 Starting %s launch%s", ColorCyan, extractField(fields, "flow"), ColorReset), true

	case strings.Contains(msg, "Asset uploaded"):
		return fmt.Sprintf("%s📦 Uploaded %s: %s%s", ColorBlue, extractField(fields, "content_type"), extractField(fields, "url"), ColorReset), true

	case strings.Contains(msg, "Storage funded"):
		return fmt.Sprintf("%s💳 Storage balance topped up (%s lamports)%s", ColorPurple, extractField(fields, "lamports"), ColorReset), true

	case strings.Contains(msg, "Transaction sent"):
		return fmt.Sprintf("%s📤 Transaction sent: %s%s", ColorYellow, shortenSignature(extractField(fields, "signature")), ColorReset), true

	case strings.Contains(msg, "Transaction confirmed"):
		return fmt.Sprintf("%s✅ Transaction confirmed: %s%s", ColorGreen, shortenSignature(extractField(fields, "signature")), ColorReset), true

	case strings.Contains(msg, "Flow completed"):
		return fmt.Sprintf("%s🎉 %s created: %s%s", ColorGreen+ColorBold, extractField(fields, "flow"), shortenAddress(extractField(fields, "address")), ColorReset), true

	default:
		return msg, false
	}
}

func extractField(fields []zapcore.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Uint64Type, zapcore.Uint32Type:
			return fmt.Sprintf("%d", field.Integer)
		case zapcore.StringerType:
			if s, ok := field.Interface.(fmt.Stringer); ok {
				return s.String()
			}
		}
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

func shortenAddress(addr string) string {
	if len(addr) > 8 {
		return addr[:4] + "..." + addr[len(addr)-4:]
	}
	return addr
}

func shortenSignature(sig string) string {
	if len(sig) > 16 {
		return sig[:8] + "..." + sig[len(sig)-8:]
	}
	return sig
}

// FieldFilterCore wraps a zapcore.Core and rewrites recognised messages.
type FieldFilterCore struct {
	core   zapcore.Core
	fields []zapcore.Field
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &FieldFilterCore{core: c.core, fields: merged}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field{}, c.fields...), fields...)
	if pretty, ok := FormatMessage(entry.Message, all); ok {
		entry.Message = pretty
		return c.core.Write(entry, nil)
	}
	return c.core.Write(entry, all)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}
