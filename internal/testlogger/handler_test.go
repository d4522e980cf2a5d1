package testlogger_test

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/testlogger"
)

func TestHandler_RoutesToTheCallingTest(t *testing.T) {
	t.Parallel()

	handler := testlogger.New()
	logger := slog.New(handler)

	for _, name := range []string{"first", "second"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout := &strings.Builder{}
			handler.AddInstance(cmdlogger.New(stdout, &strings.Builder{}))
			defer handler.Delete()

			logger.Info("hello from " + name)

			if got, want := stdout.String(), "hello from "+name+"\n"; got != want {
				t.Errorf("stdout = %q, want %q", got, want)
			}
		})
	}
}

func TestHandler_MufflesGoroutineLogs(t *testing.T) {
	t.Parallel()

	handler := testlogger.New()
	logger := slog.New(handler)

	stdout := &strings.Builder{}
	handler.AddInstance(cmdlogger.New(stdout, &strings.Builder{}))
	defer handler.Delete()

	var wg sync.WaitGroup
	wg.Go(func() {
		logger.Log(context.Background(), slog.LevelInfo, "Scanning lodash@4.17.20")
	})
	wg.Wait()

	logger.Info("Scanning left-pad@1.3.0")

	if got := stdout.String(); got != "" {
		t.Errorf("expected muffled messages to be dropped, got %q", got)
	}
}
