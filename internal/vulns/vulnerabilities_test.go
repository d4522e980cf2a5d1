package vulns_test

import (
	"testing"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/google/go-cmp/cmp"
	"github.com/ossf/osv-schema/bindings/go/osvschema"
	"github.com/sbomscope/sbomscope/internal/vulns"
	"github.com/sbomscope/sbomscope/pkg/models"
	"google.golang.org/protobuf/encoding/protojson"
)

func fetched(t *testing.T, id string, aliases ...string) *osvschema.Vulnerability {
	t.Helper()

	v := &osvschema.Vulnerability{}
	raw := `{"id": "` + id + `", "aliases": [`
	for i, alias := range aliases {
		if i > 0 {
			raw += ","
		}
		raw += `"` + alias + `"`
	}
	raw += `]}`

	if err := protojson.Unmarshal([]byte(raw), v); err != nil {
		t.Fatalf("failed to build OSV record: %v", err)
	}

	return v
}

func declared(ids ...string) []models.DeclaredVulnerability {
	out := make([]models.DeclaredVulnerability, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.DeclaredVulnerability{Vulnerability: cyclonedx.Vulnerability{ID: id}})
	}

	return out
}

func ids(vs []*osvschema.Vulnerability) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.GetId())
	}

	return out
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		declared []models.DeclaredVulnerability
		fetched  func(t *testing.T) []*osvschema.Vulnerability
		want     []string
	}{
		{
			name:     "alias collision drops the fetched record",
			declared: declared("CVE-1"),
			fetched: func(t *testing.T) []*osvschema.Vulnerability {
				t.Helper()
				return []*osvschema.Vulnerability{fetched(t, "CVE-2", "CVE-1")}
			},
			want: []string{},
		},
		{
			name:     "nothing declared",
			declared: declared(),
			fetched: func(t *testing.T) []*osvschema.Vulnerability {
				t.Helper()
				return []*osvschema.Vulnerability{fetched(t, "CVE-3")}
			},
			want: []string{"CVE-3"},
		},
		{
			name:     "id collision drops the fetched record",
			declared: declared("GHSA-aaaa-bbbb-cccc"),
			fetched: func(t *testing.T) []*osvschema.Vulnerability {
				t.Helper()
				return []*osvschema.Vulnerability{
					fetched(t, "GHSA-aaaa-bbbb-cccc", "CVE-2024-1"),
					fetched(t, "GHSA-dddd-eeee-ffff", "CVE-2024-2"),
				}
			},
			want: []string{"GHSA-dddd-eeee-ffff"},
		},
		{
			name:     "declared records without an id match nothing",
			declared: declared("", ""),
			fetched: func(t *testing.T) []*osvschema.Vulnerability {
				t.Helper()
				return []*osvschema.Vulnerability{fetched(t, "CVE-4", "")}
			},
			want: []string{"CVE-4"},
		},
		{
			name:     "order of survivors is preserved",
			declared: declared("CVE-10"),
			fetched: func(t *testing.T) []*osvschema.Vulnerability {
				t.Helper()
				return []*osvschema.Vulnerability{
					fetched(t, "PYSEC-3"),
					fetched(t, "GHSA-2", "CVE-10"),
					fetched(t, "GHSA-1"),
				}
			},
			want: []string{"PYSEC-3", "GHSA-1"},
		},
		{
			name:     "nothing fetched",
			declared: declared("CVE-1"),
			fetched: func(_ *testing.T) []*osvschema.Vulnerability {
				return nil
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := vulns.Reconcile(tt.declared, tt.fetched(t))
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Reconcile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcile_DoesNotTouchDeclared(t *testing.T) {
	t.Parallel()

	d := declared("CVE-1", "CVE-2")
	_ = vulns.Reconcile(d, []*osvschema.Vulnerability{fetched(t, "CVE-1")})

	if diff := cmp.Diff([]string{"CVE-1", "CVE-2"}, []string{d[0].ID, d[1].ID}); diff != "" {
		t.Errorf("declared records were modified (-want +got):\n%s", diff)
	}
}

func TestIdentity_Intersects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b vulns.Identity
		want bool
	}{
		{name: "shared alias", a: vulns.Identity{"A", "B"}, b: vulns.Identity{"C", "B"}, want: true},
		{name: "disjoint", a: vulns.Identity{"A"}, b: vulns.Identity{"B"}, want: false},
		{name: "empty", a: vulns.Identity{}, b: vulns.Identity{"B"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() is not symmetric, got %v", got)
			}
		})
	}
}
