package serve

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger creates the process logger, optionally teeing into
// a size-rotated log file
func newLogger(logFile string) *slog.Logger {
	var out io.Writer = os.Stdout

	if logFile != "" {
		out = io.MultiWriter(
			os.Stdout,
			&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			},
		)
	}

	return slog.New(slog.NewTextHandler(out, nil))
}
