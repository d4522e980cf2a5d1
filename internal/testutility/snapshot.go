package testutility

import (
	"runtime"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// Snapshot matches test output against the snapshots stored alongside the
// test, once anything that varies between machines has been normalized.
type Snapshot struct {
	// WindowsReplacements maps text only seen on Windows to what is seen
	// everywhere else
	WindowsReplacements map[string]string
}

func NewSnapshot() Snapshot {
	return Snapshot{WindowsReplacements: map[string]string{}}
}

// WithWindowsReplacements returns a copy of the snapshot that replaces the
// keys of replacements with their values when running on Windows.
func (s Snapshot) WithWindowsReplacements(replacements map[string]string) Snapshot {
	s.WindowsReplacements = replacements

	return s
}

// MatchText asserts that got matches the snapshot of the running test.
func (s Snapshot) MatchText(t *testing.T, got string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		for match, replacement := range s.WindowsReplacements {
			got = strings.ReplaceAll(got, match, replacement)
		}
	}

	snaps.MatchSnapshot(t, normalizeSnapshot(t, got))
}

// CleanSnapshots removes obsolete snapshots, and should be called at the end
// of TestMain in every package that uses snapshots
func CleanSnapshots(m *testing.M) {
	snaps.Clean(m, snaps.CleanOpts{Sort: true})
}
