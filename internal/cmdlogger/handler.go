// Package cmdlogger writes the logs of sbomscope commands as plain lines,
// with errors going to stderr and everything else to stdout.
package cmdlogger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type Handler struct {
	mu sync.Mutex

	stdout io.Writer
	stderr io.Writer
	level  slog.Leveler

	everythingToStderr bool

	hasErrored                     bool
	hasErroredBecauseInvalidConfig bool
}

var _ CmdLogger = &Handler{}

// New returns a handler that logs at the info level and above.
func New(stdout, stderr io.Writer) CmdLogger {
	return &Handler{
		stdout: stdout,
		stderr: stderr,
		level:  slog.LevelInfo,
	}
}

func (c *Handler) SendEverythingToStderr() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.everythingToStderr = true
}

func (c *Handler) SetLevel(level slog.Leveler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.level = level
}

func (c *Handler) Enabled(_ context.Context, level slog.Level) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	// errors always count, even when they are not shown
	return level >= slog.LevelError || level >= c.level.Level()
}

func (c *Handler) Handle(_ context.Context, record slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.stdout

	if record.Level >= slog.LevelError {
		c.hasErrored = true
		c.hasErroredBecauseInvalidConfig = c.hasErroredBecauseInvalidConfig ||
			strings.HasPrefix(record.Message, InvalidConfigPrefix)
		out = c.stderr
	}

	if c.everythingToStderr {
		out = c.stderr
	}

	_, err := io.WriteString(out, record.Message+"\n")

	return err
}

// HasErrored reports whether any error has been handled.
func (c *Handler) HasErrored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hasErrored
}

// HasErroredBecauseInvalidConfig reports whether any error about a config
// file that could not be used has been handled.
func (c *Handler) HasErroredBecauseInvalidConfig() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hasErroredBecauseInvalidConfig
}

func (c *Handler) WithAttrs(_ []slog.Attr) slog.Handler {
	panic("not supported")
}

func (c *Handler) WithGroup(_ string) slog.Handler {
	panic("not supported")
}
