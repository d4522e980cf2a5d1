package show_test

import (
	"io"
	"slices"
	"testing"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/testcmd"
	"github.com/sbomscope/sbomscope/cmd/sbomscope/show"
	"github.com/sbomscope/sbomscope/internal/testutility"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
)

func TestCommand(t *testing.T) {
	t.Parallel()

	tests := []testcmd.Case{
		{
			Name: "package by id",
			Args: []string{"", "show", "--dir", "../testdata/project", "web.cdx.json:pkg:npm/lodash@4.17.20"},
			Exit: 0,
		},
		{
			Name: "package by name",
			Args: []string{"", "show", "--dir", "../testdata/project", "minimist"},
			Exit: 0,
		},
		{
			Name: "package without a purl",
			Args: []string{"", "show", "--dir", "../testdata/project", "internal-lib"},
			Exit: 0,
		},
		{
			Name: "package whose registry does not know it",
			Args: []string{"", "show", "--dir", "../testdata/project", "urllib3"},
			Exit: 0,
		},
		{
			Name: "without scanning or looking up health",
			Args: []string{"", "show", "--dir", "../testdata/project", "--no-scan", "--no-health", "requests"},
			Exit: 0,
		},
		{
			Name: "json output",
			Args: []string{"", "show", "--dir", "../testdata/project", "--format", "json", "lodash"},
			Exit: 0,
			ReplaceRules: []testutility.JSONReplaceRule{
				{
					Path: "package.fetchedVulnerabilities",
					ReplaceFunc: func(toReplace gjson.Result) any {
						return toReplace.Get("#.id").Value()
					},
				},
			},
		},
		{
			Name: "unknown package",
			Args: []string{"", "show", "--dir", "../testdata/project", "left-pad"},
			Exit: 127,
		},
		{
			Name: "no package given",
			Args: []string{"", "show", "--dir", "../testdata/project"},
			Exit: 127,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			t.Parallel()

			fakes := testcmd.NewFakeAPIs(t, "../testdata/advisories.json")
			fakes.Registry.SetResponseFromFile(t, "lodash/4.17.20", "../testdata/npm-lodash.json")

			testcmd.RunAndMatchSnapshots(t, tt, func(stdout, stderr io.Writer) *cli.Command {
				return show.Command(stdout, stderr, fakes.Client)
			})
		})
	}
}

func TestCommand_NoScan(t *testing.T) {
	t.Parallel()

	fakes := testcmd.NewFakeAPIs(t, "../testdata/advisories.json")

	testcmd.Run(t, testcmd.Case{
		Args: []string{"", "show", "--dir", "../testdata/project", "--no-scan", "--no-health", "lodash"},
		Exit: 0,
	}, func(stdout, stderr io.Writer) *cli.Command {
		return show.Command(stdout, stderr, fakes.Client)
	})

	if queries := fakes.Queries(); len(queries) != 0 {
		t.Errorf("expected no advisory queries, got %v", queries)
	}
}

func TestCommand_AsksTheRegistryOfThePackage(t *testing.T) {
	t.Parallel()

	fakes := testcmd.NewFakeAPIs(t, "../testdata/advisories.json")
	fakes.Registry.SetResponseFromFile(t, "lodash/4.17.20", "../testdata/npm-lodash.json")

	stdout, _ := testcmd.Run(t, testcmd.Case{
		Args: []string{"", "show", "--dir", "../testdata/project", "--no-scan", "--format", "json", "lodash"},
		Exit: 0,
	}, func(stdout, stderr io.Writer) *cli.Command {
		return show.Command(stdout, stderr, fakes.Client)
	})

	if got, want := fakes.Registry.Requested(), []string{"lodash/4.17.20"}; !slices.Equal(got, want) {
		t.Errorf("registry requests = %v, want %v", got, want)
	}

	if got, want := gjson.Get(stdout, "repository").String(), "https://github.com/lodash/lodash"; got != want {
		t.Errorf("repository = %q, want %q", got, want)
	}
}
