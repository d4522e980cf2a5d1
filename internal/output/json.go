package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sbomscope/sbomscope/internal/depsdev"
	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/sbomscope/sbomscope/internal/severity"
	"github.com/sbomscope/sbomscope/pkg/models"
	"github.com/tidwall/pretty"
	"google.golang.org/protobuf/encoding/protojson"
)

// jsonPackage mirrors models.Package, with the advisory records encoded
// using their canonical protobuf JSON form.
type jsonPackage struct {
	ID           string            `json:"id"`
	NativeRef    string            `json:"nativeRef"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Source       string            `json:"source"`
	License      string            `json:"license"`
	Description  string            `json:"description,omitempty"`
	Dependencies models.Dependency `json:"dependencies"`

	DeclaredVulnerabilities []models.DeclaredVulnerability `json:"declaredVulnerabilities"`
	FetchedVulnerabilities  []json.RawMessage              `json:"fetchedVulnerabilities"`

	Scanned  bool            `json:"scanned"`
	Severity models.Severity `json:"highestSeverity"`
}

type jsonPage struct {
	Number int `json:"number"`
	Count  int `json:"count"`
	Total  int `json:"total"`
}

type jsonOutput struct {
	Summary  Summary       `json:"summary"`
	Page     *jsonPage     `json:"page,omitempty"`
	Packages []jsonPackage `json:"packages"`
}

type jsonDetail struct {
	Package    jsonPackage     `json:"package"`
	Repository string          `json:"repository,omitempty"`
	Health     *depsdev.Health `json:"health,omitempty"`
}

func toJSONPackage(pkg models.Package) (jsonPackage, error) {
	fetched := make([]json.RawMessage, 0, len(pkg.FetchedVulnerabilities))
	for _, v := range pkg.FetchedVulnerabilities {
		b, err := protojson.Marshal(v)
		if err != nil {
			return jsonPackage{}, fmt.Errorf("failed to encode %s: %w", v.GetId(), err)
		}
		fetched = append(fetched, b)
	}

	declared := pkg.DeclaredVulnerabilities
	if declared == nil {
		declared = []models.DeclaredVulnerability{}
	}

	return jsonPackage{
		ID:                      pkg.ID,
		NativeRef:               pkg.NativeRef,
		Name:                    pkg.Name,
		Version:                 pkg.Version,
		Source:                  pkg.Source,
		License:                 pkg.License,
		Description:             pkg.Description,
		Dependencies:            pkg.Dependencies,
		DeclaredVulnerabilities: declared,
		FetchedVulnerabilities:  fetched,
		Scanned:                 pkg.Scanned,
		Severity:                severity.Highest(severity.OfPackage(pkg)),
	}, nil
}

func writeJSON(v any, outputWriter io.Writer) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = outputWriter.Write(pretty.Pretty(b))

	return err
}

// PrintJSONResults prints a page of packages, along with the summary of
// every package the page was taken from, as JSON.
func PrintJSONResults(summary Summary, page filter.Page[models.Package], outputWriter io.Writer) error {
	out := jsonOutput{
		Summary:  summary,
		Page:     &jsonPage{Number: page.Number, Count: page.Count, Total: page.Total},
		Packages: make([]jsonPackage, 0, len(page.Items)),
	}

	for _, pkg := range page.Items {
		jp, err := toJSONPackage(pkg)
		if err != nil {
			return err
		}
		out.Packages = append(out.Packages, jp)
	}

	return writeJSON(out, outputWriter)
}

// PrintJSONDetail prints everything known about a package as JSON.
func PrintJSONDetail(detail Detail, outputWriter io.Writer) error {
	jp, err := toJSONPackage(detail.Package)
	if err != nil {
		return err
	}

	return writeJSON(jsonDetail{
		Package:    jp,
		Repository: detail.Repository,
		Health:     detail.Health,
	}, outputWriter)
}
