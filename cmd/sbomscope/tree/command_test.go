package tree_test

import (
	"testing"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/testcmd"
	"github.com/sbomscope/sbomscope/cmd/sbomscope/tree"
)

func TestCommand(t *testing.T) {
	t.Parallel()

	tests := []testcmd.Case{
		{
			Name: "every document in a directory",
			Args: []string{"", "tree", "--all-packages", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "only the cyclonedx document",
			Args: []string{"", "tree", "--document", "web.cdx.json", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "only the spdx document",
			Args: []string{"", "tree", "--document", "api.spdx.json", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "search that matches nothing",
			Args: []string{"", "tree", "--search", "left-pad", "../testdata/project"},
			Exit: 0,
		},
		{
			Name: "directory with broken documents",
			Args: []string{"", "tree", "../testdata/broken"},
			Exit: 127,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			t.Parallel()

			testcmd.RunAndMatchSnapshots(t, tt, tree.Command)
		})
	}
}
