package tree_test

import (
	"log/slog"
	"testing"

	"github.com/sbomscope/sbomscope/internal/testlogger"
	"github.com/sbomscope/sbomscope/internal/testutility"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(testlogger.New()))
	m.Run()

	testutility.CleanSnapshots(m)
}
