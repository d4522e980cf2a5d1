package cmdlogger

import (
	"fmt"
	"log/slog"
	"strings"
)

// levels are the values accepted by ParseLevel, from least to most verbose.
var levels = []struct {
	name  string
	level slog.Level
}{
	{"error", slog.LevelError},
	{"warn", slog.LevelWarn},
	{"info", slog.LevelInfo},
	{"debug", slog.LevelDebug},
}

// Levels returns the names of every level, for use in help text.
func Levels() []string {
	names := make([]string, 0, len(levels))
	for _, l := range levels {
		names = append(names, l.name)
	}

	return names
}

// ParseLevel returns the level with the given name, ignoring case.
func ParseLevel(text string) (slog.Level, error) {
	for _, l := range levels {
		if strings.EqualFold(text, l.name) {
			return l.level, nil
		}
	}

	return slog.LevelInfo, fmt.Errorf("invalid verbosity level \"%s\" - must be one of: %s", text, strings.Join(Levels(), ", "))
}
