package list_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/testcmd"
	"github.com/sbomscope/sbomscope/cmd/sbomscope/list"
	"github.com/tidwall/gjson"
)

func TestCommand(t *testing.T) {
	t.Parallel()

	tests := []testcmd.Case{
		{
			Name: "every document in a directory",
			Args: []string{"", "list", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "directory given with the flag",
			Args: []string{"", "list", "--dir", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "only one document",
			Args: []string{"", "list", "--document", "api.spdx.json", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "only packages from one source",
			Args: []string{"", "list", "--source", "web.cdx.json", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "search by license",
			Args: []string{"", "list", "--search", "apache", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "second page",
			Args: []string{"", "list", "--page", "2", "--page-size", "3", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "page past the end",
			Args: []string{"", "list", "--page", "9", "--page-size", "3", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "every package on one page",
			Args: []string{"", "list", "--page-size", "2", "--all-packages", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "only vulnerable packages",
			Args: []string{"", "list", "--vulnerable-only", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "json output",
			Args: []string{"", "list", "--format", "json", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "document that is not in the index",
			Args: []string{"", "list", "--document", "missing.cdx.json", "../testdata/project"},
			Exit: 128,
		},
		{
			Name: "directory without documents",
			Args: []string{"", "list", "../testdata/empty"},
			Exit: 128,
		},
		{
			Name: "directory with broken documents",
			Args: []string{"", "list", "../testdata/broken"},
			Exit: 127,
		},
		{
			Name: "unsupported format",
			Args: []string{"", "list", "--format", "sarif", "../testdata/project"},
			Exit: 127,
		},
		{
			Name: "config file that does not exist",
			Args: []string{"", "list", "--config", "../testdata/does-not-exist.toml", "../testdata/project"},
			Exit: 130,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			t.Parallel()

			testcmd.RunAndMatchSnapshots(t, tt, list.Command)
		})
	}
}

func TestCommand_Output(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "packages.json")

	stdout, _ := testcmd.Run(t, testcmd.Case{
		Args: []string{"", "list", "--format", "json", "--output", out, "../testdata/project"},
		Exit: 0,
	}, list.Command)

	if stdout != "" {
		t.Errorf("expected nothing on stdout, got %q", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	result := gjson.ParseBytes(data)
	if got := result.Get("summary.packages").Int(); got != 8 {
		t.Errorf("summary.packages = %d, want 8", got)
	}
	if got := result.Get("packages.0.name").String(); got != "web-app" {
		t.Errorf("first package = %q, want %q", got, "web-app")
	}
}
