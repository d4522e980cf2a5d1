package cmdlogger

import (
	"context"
	"fmt"
	"log/slog"
)

// logf logs the formatted message through the default logger, without
// formatting it if the level is not enabled.
func logf(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	logger := slog.Default()

	if !logger.Enabled(ctx, level) {
		return
	}

	logger.Log(ctx, level, fmt.Sprintf(msg, args...))
}

func Debugf(msg string, args ...any) {
	logf(slog.LevelDebug, msg, args)
}

func Infof(msg string, args ...any) {
	logf(slog.LevelInfo, msg, args)
}

func Warnf(msg string, args ...any) {
	logf(slog.LevelWarn, msg, args)
}

// Errorf logs an error, which causes the command to exit with a non-zero code.
func Errorf(msg string, args ...any) {
	logf(slog.LevelError, msg, args)
}
