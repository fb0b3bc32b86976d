package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(level slog.Level) {
	slog.SetDefault(slog.New(NewStdoutHandler(level)))
}

func NewStdoutHandler(level slog.Level) slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// AttachPG makes the default logger also write ERROR+ records to pg.
func AttachPG(level slog.Level, pg *PGHandler) {
	slog.SetDefault(slog.New(NewMultiHandler(NewStdoutHandler(level), pg)))
}
