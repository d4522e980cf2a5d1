package sbom_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sbomscope/sbomscope/pkg/models"
	"github.com/sbomscope/sbomscope/pkg/sbom"
	"github.com/tidwall/sjson"
)

func node(name, version string, children ...models.Dependency) models.Dependency {
	if children == nil {
		children = []models.Dependency{}
	}

	return models.Dependency{Name: name, Version: version, Children: children}
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Failed to read fixture file: %v", err)
	}

	return data
}

// summary is the part of a package that is easy to compare by eye.
type summary struct {
	ID        string
	NativeRef string
	Name      string
	Version   string
	License   string
	Declared  []string
	Scanned   bool
}

func summarize(pkgs []models.Package) []summary {
	out := make([]summary, 0, len(pkgs))
	for _, pkg := range pkgs {
		declared := []string{}
		for _, v := range pkg.DeclaredVulnerabilities {
			declared = append(declared, v.ID)
		}
		out = append(out, summary{
			ID:        pkg.ID,
			NativeRef: pkg.NativeRef,
			Name:      pkg.Name,
			Version:   pkg.Version,
			License:   pkg.License,
			Declared:  declared,
			Scanned:   pkg.Scanned,
		})
	}

	return out
}

func TestParse_CycloneDX(t *testing.T) {
	t.Parallel()

	pkgs, err := sbom.Parse("cyclonedx.json", readFixture(t, "cyclonedx.json"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []summary{
		{
			ID:        "cyclonedx.json:pkg:npm/app@1.0.0",
			NativeRef: "pkg:npm/app@1.0.0",
			Name:      "app",
			Version:   "1.0.0",
			License:   "MIT",
			Declared:  []string{},
			Scanned:   true,
		},
		{
			ID:        "cyclonedx.json:pkg:npm/lib-a@2.0.0",
			NativeRef: "pkg:npm/lib-a@2.0.0",
			Name:      "lib-a",
			Version:   "2.0.0",
			License:   "Custom License",
			Declared:  []string{"GHSA-aaaa-bbbb-cccc"},
			Scanned:   true,
		},
		{
			ID:        "cyclonedx.json:pkg:npm/lib-b@3.0.0?arch=x64",
			NativeRef: "pkg:npm/lib-b@3.0.0?arch=x64",
			Name:      "lib-b",
			Version:   "3.0.0",
			License:   "MIT OR Apache-2.0",
			Declared:  []string{"CVE-2024-0001"},
			Scanned:   true,
		},
	}

	if diff := cmp.Diff(want, summarize(pkgs)); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}

	for _, pkg := range pkgs {
		if pkg.Source != "cyclonedx.json" {
			t.Errorf("package %s has source %q, want %q", pkg.ID, pkg.Source, "cyclonedx.json")
		}
		if len(pkg.FetchedVulnerabilities) != 0 {
			t.Errorf("package %s has fetched vulnerabilities before any scan", pkg.ID)
		}
	}

	if pkgs[0].Description != "The application" {
		t.Errorf("Description = %q, want %q", pkgs[0].Description, "The application")
	}
	if pkgs[1].Description != "" {
		t.Errorf("Description = %q, want it to be empty", pkgs[1].Description)
	}

	libB := node("lib-b", "3.0.0",
		node("lib-b", "3.0.0"),
		node("package-lock.json", ""),
	)
	wantTree := node("app", "1.0.0",
		node("lib-a", "2.0.0",
			libB,
			node("app", "1.0.0"),
		),
		libB,
		node("pkg:npm/missing@0.0.1", models.UnknownVersion),
	)

	if diff := cmp.Diff(wantTree, pkgs[0].Dependencies, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("dependency tree mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCycloneDX_Cycles(t *testing.T) {
	t.Parallel()

	bom := &cyclonedx.BOM{
		Components: &[]cyclonedx.Component{
			{BOMRef: "a", Name: "a", Version: "1"},
			{BOMRef: "b", Name: "b", Version: "2"},
			{BOMRef: "c", Name: "c", Version: "3"},
		},
		Dependencies: &[]cyclonedx.Dependency{
			{Ref: "a", Dependencies: &[]string{"b"}},
			{Ref: "b", Dependencies: &[]string{"a"}},
			{Ref: "c", Dependencies: &[]string{"c"}},
		},
	}

	pkgs := sbom.NormalizeCycloneDX(bom, "doc")

	want := []models.Dependency{
		node("a", "1", node("b", "2", node("a", "1"))),
		node("b", "2", node("a", "1", node("b", "2"))),
		node("c", "3", node("c", "3")),
	}

	got := make([]models.Dependency, 0, len(pkgs))
	for _, pkg := range pkgs {
		got = append(got, pkg.Dependencies)
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("dependency trees mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCycloneDX_SiblingsDoNotShareAncestry(t *testing.T) {
	t.Parallel()

	// a depends on b and c, which both depend on d
	bom := &cyclonedx.BOM{
		Components: &[]cyclonedx.Component{
			{BOMRef: "a", Name: "a", Version: "1"},
			{BOMRef: "b", Name: "b", Version: "1"},
			{BOMRef: "c", Name: "c", Version: "1"},
			{BOMRef: "d", Name: "d", Version: "1"},
		},
		Dependencies: &[]cyclonedx.Dependency{
			{Ref: "a", Dependencies: &[]string{"b", "c"}},
			{Ref: "b", Dependencies: &[]string{"d"}},
			{Ref: "c", Dependencies: &[]string{"d"}},
			{Ref: "d"},
		},
	}

	pkgs := sbom.NormalizeCycloneDX(bom, "doc")

	want := node("a", "1",
		node("b", "1", node("d", "1")),
		node("c", "1", node("d", "1")),
	)

	if diff := cmp.Diff(want, pkgs[0].Dependencies, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("dependency tree mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCycloneDX_DuplicateRefs(t *testing.T) {
	t.Parallel()

	bom := &cyclonedx.BOM{
		Components: &[]cyclonedx.Component{
			{BOMRef: "a", Name: "first", Version: "1"},
			{BOMRef: "a", Name: "second", Version: "2"},
			{Name: "no-ref-1"},
			{Name: "no-ref-2"},
		},
	}

	var ids []string
	for range 2 {
		ids = ids[:0]
		for _, pkg := range sbom.NormalizeCycloneDX(bom, "doc") {
			ids = append(ids, pkg.ID)
		}

		want := []string{"doc:a", "doc:a#2", "doc:", "doc:#2"}
		if diff := cmp.Diff(want, ids); diff != "" {
			t.Errorf("ids mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestNormalizeCycloneDX_QualifiedRefsShareDeclaredVulnerabilities(t *testing.T) {
	t.Parallel()

	bom := &cyclonedx.BOM{
		Components: &[]cyclonedx.Component{
			{BOMRef: "pkg:npm/a@1.0.0?package-id=1", Name: "a", Version: "1.0.0"},
			{BOMRef: "pkg:npm/b@2.0.0", Name: "b", Version: "2.0.0"},
		},
		Vulnerabilities: &[]cyclonedx.Vulnerability{
			{
				ID: "CVE-1",
				Affects: &[]cyclonedx.Affects{
					{Ref: "pkg:npm/a@1.0.0?package-id=1"},
					{Ref: "pkg:npm/a@1.0.0?package-id=2"},
					{Ref: "pkg:npm/b@2.0.0"},
				},
			},
			{
				ID:      "CVE-2",
				Affects: &[]cyclonedx.Affects{{Ref: "pkg:npm/a@1.0.0"}},
			},
		},
	}

	got := map[string][]string{}
	for _, pkg := range summarize(sbom.NormalizeCycloneDX(bom, "doc")) {
		got[pkg.Name] = pkg.Declared
	}

	want := map[string][]string{
		"a": {"CVE-1", "CVE-2"},
		"b": {"CVE-1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declared vulnerabilities mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCycloneDX_NoComponents(t *testing.T) {
	t.Parallel()

	pkgs := sbom.NormalizeCycloneDX(&cyclonedx.BOM{}, "doc")
	if len(pkgs) != 0 {
		t.Errorf("expected no packages, got %d", len(pkgs))
	}
}

func TestNormalizeCycloneDX_NotScannedWithoutVulnerabilities(t *testing.T) {
	t.Parallel()

	bom := &cyclonedx.BOM{
		Components:      &[]cyclonedx.Component{{BOMRef: "a", Name: "a"}},
		Vulnerabilities: &[]cyclonedx.Vulnerability{},
	}

	if pkgs := sbom.NormalizeCycloneDX(bom, "doc"); pkgs[0].Scanned {
		t.Errorf("package is scanned, but its document has no vulnerabilities")
	}
}

func TestParse_CycloneDXLicenses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		licenses string
		want     string
	}{
		{
			name:     "license_id",
			licenses: `[{"license": {"id": "MIT"}}]`,
			want:     "MIT",
		},
		{
			name:     "id_preferred_over_name",
			licenses: `[{"license": {"id": "Apache-2.0", "name": "Apache License"}}]`,
			want:     "Apache-2.0",
		},
		{
			name:     "license_name",
			licenses: `[{"license": {"name": "Proprietary"}}]`,
			want:     "Proprietary",
		},
		{
			name:     "expression",
			licenses: `[{"expression": "MIT OR Apache-2.0"}]`,
			want:     "MIT OR Apache-2.0",
		},
		{
			name:     "only_first_entry",
			licenses: `[{"license": {"id": "BSD-3-Clause"}}, {"license": {"id": "MIT"}}]`,
			want:     "BSD-3-Clause",
		},
		{
			name:     "empty_list",
			licenses: `[]`,
			want:     models.NoLicense,
		},
		{
			name: "missing",
			want: models.NoLicense,
		},
	}

	fixture := readFixture(t, "cyclonedx.json")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := sjson.DeleteBytes(fixture, "components.0.licenses")
			if err != nil {
				t.Fatalf("failed to remove licenses: %v", err)
			}
			if tt.licenses != "" {
				data, err = sjson.SetRawBytes(data, "components.0.licenses", []byte(tt.licenses))
				if err != nil {
					t.Fatalf("failed to set licenses: %v", err)
				}
			}

			pkgs, err := sbom.Parse("cyclonedx.json", data)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if pkgs[0].License != tt.want {
				t.Errorf("License = %q, want %q", pkgs[0].License, tt.want)
			}
		})
	}
}
