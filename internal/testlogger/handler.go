// Package testlogger lets parallel tests share the global slog handler, with
// each test's logs going to the cmdlogger instance that test registered.
//
// Logs made from goroutines cannot be tied back to a test, so only messages
// that are known to be noise are accepted from them, and are dropped.
package testlogger

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/sbomscope/sbomscope/internal/cmdlogger"
)

// MuffledPrefixes are the starts of messages that are never written, as they
// are logged from goroutines or vary between runs.
var MuffledPrefixes = []string{
	"Scanning ",
	"Looked up ",
}

// detached handles calls that do not come from a test goroutine.
var detached = cmdlogger.New(io.Discard, io.Discard)

// Handler is installed as the global handler by TestMain, after which each
// test adds its own cmdlogger.CmdLogger with AddInstance.
type Handler struct {
	// test instance -> cmdlogger.CmdLogger
	instances sync.Map
}

var _ cmdlogger.CmdLogger = &Handler{}

func New() *Handler {
	return &Handler{}
}

func (tl *Handler) current() cmdlogger.CmdLogger {
	key := testInstance()
	if key == "" {
		return detached
	}

	logger, ok := tl.instances.Load(key)
	if !ok {
		panic("no logger has been added for " + key)
	}

	return logger.(cmdlogger.CmdLogger)
}

// AddInstance routes every log made by the calling test to logger, until
// Delete is called.
func (tl *Handler) AddInstance(logger cmdlogger.CmdLogger) {
	if _, loaded := tl.instances.LoadOrStore(testInstance(), logger); loaded {
		panic("a logger has already been added for this test")
	}
}

// Delete removes the logger added by the calling test.
//
// It must be called before the test ends, as the key of the test can be
// reused by a later one.
func (tl *Handler) Delete() {
	tl.instances.Delete(testInstance())
}

func (tl *Handler) SendEverythingToStderr() {
	tl.current().SendEverythingToStderr()
}

func (tl *Handler) SetLevel(level slog.Leveler) {
	tl.current().SetLevel(level)
}

func (tl *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return tl.current().Enabled(ctx, level)
}

func (tl *Handler) Handle(ctx context.Context, record slog.Record) error {
	for _, prefix := range MuffledPrefixes {
		if strings.HasPrefix(record.Message, prefix) {
			return nil
		}
	}

	logger := tl.current()
	if logger == detached {
		panic("unmuffled message logged outside of a test goroutine: " + record.Message)
	}

	return logger.Handle(ctx, record)
}

func (tl *Handler) HasErrored() bool {
	return tl.current().HasErrored()
}

func (tl *Handler) HasErroredBecauseInvalidConfig() bool {
	return tl.current().HasErroredBecauseInvalidConfig()
}

func (tl *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tl.current().WithAttrs(attrs)
}

func (tl *Handler) WithGroup(name string) slog.Handler {
	return tl.current().WithGroup(name)
}

// testInstance identifies the running test by the frame of its
// testing.tRunner call, whose arguments hold the address of the test:
//
//	testing.tRunner(0xc000103040, 0x5c8d18)
//
// The address stays unique for as long as the test runs.
//
// An empty string is returned when called from a goroutine started by the
// test, as the stack of those does not reach back to the runner.
func testInstance() string {
	sc := bufio.NewScanner(bytes.NewReader(debug.Stack()))
	for sc.Scan() {
		line := sc.Text()

		switch {
		case strings.HasPrefix(line, "testing.tRunner("):
			return line
		case strings.HasPrefix(line, "created by ") && strings.Contains(line, " in goroutine "):
			return ""
		}
	}

	return ""
}
