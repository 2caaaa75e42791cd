package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const formatJSON = "json"

// Log is the process-wide logger. Configure replaces it at startup.
var Log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	Log = New(os.Stdout, "console")
}

// New builds a logger writing to w. format "json" emits one JSON object per
// line; anything else uses the human-readable console writer.
func New(w io.Writer, format string) zerolog.Logger {
	if !strings.EqualFold(format, formatJSON) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}
	return zerolog.New(w).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}

// Configure sets the output format and level of Log.
func Configure(level, format string) {
	Log = New(os.Stdout, format)
	SetLevel(level)
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	Log = Log.Level(level)
}
