package testutility_test

import (
	"testing"

	"github.com/sbomscope/sbomscope/internal/testutility"
	"github.com/tidwall/gjson"
)

func TestReplaceJSONInput(t *testing.T) {
	t.Parallel()

	input := `{
		"packages": [
			{"name": "a", "fetchedVulnerabilities": [{"id": "GHSA-1", "summary": "one"}, {"id": "GHSA-2"}], "dependencies": {"name": "a", "children": [{"name": "b", "children": []}]}},
			{"name": "c", "fetchedVulnerabilities": [], "dependencies": {"name": "c", "children": []}}
		]
	}`

	tests := []struct {
		name string
		rule testutility.JSONReplaceRule
		path string
		want string
	}{
		{
			name: "only ids of the first package",
			rule: testutility.OnlyIDVulnsRule,
			path: "packages.0.fetchedVulnerabilities",
			want: `["GHSA-1","GHSA-2"]`,
		},
		{
			name: "only ids of a package without vulnerabilities",
			rule: testutility.OnlyIDVulnsRule,
			path: "packages.1.fetchedVulnerabilities",
			want: `[]`,
		},
		{
			name: "tree size",
			rule: testutility.DependenciesAsSize,
			path: "packages.0.dependencies",
			want: `2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := testutility.ReplaceJSONInput(t, input, tt.rule.Path, tt.rule.ReplaceFunc)

			if raw := gjson.Get(got, tt.path).Raw; raw != tt.want {
				t.Errorf("%s = %s, want %s", tt.path, raw, tt.want)
			}
		})
	}
}
