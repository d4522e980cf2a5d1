package filter_test

import (
	"testing"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/google/go-cmp/cmp"
	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/sbomscope/sbomscope/pkg/models"
)

func names(pkgs []models.Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		out = append(out, pkg.Name)
	}

	return out
}

func TestApply(t *testing.T) {
	t.Parallel()

	declared := []models.DeclaredVulnerability{{Vulnerability: cyclonedx.Vulnerability{ID: "CVE-1"}}}

	pkgs := []models.Package{
		{Name: "react", License: "MIT", Source: "web.json", Scanned: true, DeclaredVulnerabilities: declared},
		{Name: "lodash", License: "MIT", Source: "web.json", Scanned: true},
		{Name: "requests", License: "Apache-2.0", Source: "api.spdx.json"},
		{Name: "Flask", License: models.NoLicense, Source: "api.spdx.json", DeclaredVulnerabilities: declared},
		{Name: "urllib3", License: "MIT", Source: "api.spdx.json", Scanned: true, DeclaredVulnerabilities: declared},
	}

	tests := []struct {
		name string
		opts filter.Options
		want []string
	}{
		{
			name: "no options",
			opts: filter.Options{},
			want: []string{"react", "lodash", "requests", "Flask", "urllib3"},
		},
		{
			name: "all sources",
			opts: filter.Options{Source: filter.AllSources},
			want: []string{"react", "lodash", "requests", "Flask", "urllib3"},
		},
		{
			name: "one source",
			opts: filter.Options{Source: "api.spdx.json"},
			want: []string{"requests", "Flask", "urllib3"},
		},
		{
			name: "search is case insensitive",
			opts: filter.Options{Search: "FLA"},
			want: []string{"Flask"},
		},
		{
			name: "search matches licenses",
			opts: filter.Options{Search: "apache"},
			want: []string{"requests"},
		},
		{
			name: "vulnerable only requires a scan",
			opts: filter.Options{VulnerableOnly: true},
			want: []string{"react", "urllib3"},
		},
		{
			name: "every option",
			opts: filter.Options{Source: "api.spdx.json", Search: "mit", VulnerableOnly: true},
			want: []string{"urllib3"},
		},
		{
			name: "nothing matches",
			opts: filter.Options{Search: "django"},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, names(filter.Apply(pkgs, tt.opts))); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	tests := []struct {
		name   string
		items  []int
		number int
		size   int
		want   filter.Page[int]
	}{
		{
			name:   "first page",
			items:  items,
			number: 1,
			size:   4,
			want:   filter.Page[int]{Items: []int{1, 2, 3, 4}, Number: 1, Count: 3, Total: 11},
		},
		{
			name:   "partial last page",
			items:  items,
			number: 3,
			size:   4,
			want:   filter.Page[int]{Items: []int{9, 10, 11}, Number: 3, Count: 3, Total: 11},
		},
		{
			name:   "past the end",
			items:  items,
			number: 7,
			size:   4,
			want:   filter.Page[int]{Items: []int{9, 10, 11}, Number: 3, Count: 3, Total: 11},
		},
		{
			name:   "before the start",
			items:  items,
			number: 0,
			size:   10,
			want:   filter.Page[int]{Items: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Number: 1, Count: 2, Total: 11},
		},
		{
			name:   "default size",
			items:  items,
			number: 2,
			size:   0,
			want:   filter.Page[int]{Items: []int{9, 10, 11}, Number: 2, Count: 2, Total: 11},
		},
		{
			name:   "no items",
			items:  []int{},
			number: 2,
			size:   4,
			want:   filter.Page[int]{Items: []int{}, Number: 1, Count: 1, Total: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := filter.Paginate(tt.items, tt.number, tt.size)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Paginate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRange(t *testing.T) {
	t.Parallel()

	const dots = filter.Ellipsis

	tests := []struct {
		name    string
		count   int
		current int
		want    []int
	}{
		{name: "few pages", count: 5, current: 3, want: []int{1, 2, 3, 4, 5}},
		{name: "near the start", count: 20, current: 2, want: []int{1, 2, 3, 4, 5, dots, 20}},
		{name: "near the end", count: 20, current: 19, want: []int{1, dots, 16, 17, 18, 19, 20}},
		{name: "in the middle", count: 20, current: 10, want: []int{1, dots, 9, 10, 11, dots, 20}},
		{name: "single page", count: 1, current: 1, want: []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, filter.Range(tt.count, tt.current, 1)); diff != "" {
				t.Errorf("Range() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
