// Package models provides the canonical package graph that every SBOM
// format is normalized into.
package models

import "github.com/ossf/osv-schema/bindings/go/osvschema"

const (
	// NoLicense is used when a document does not assert a license for a package.
	NoLicense = "N/A"
	// UnknownVersion is the version given to dependency nodes that point at
	// something the document never declares.
	UnknownVersion = "unknown"
)

// Package is a single component/package from one SBOM document.
//
// Packages are treated as values: everything except the scan state is fixed when
// the document is normalized, and the scan state only changes via WithScanResult.
type Package struct {
	// ID is unique within the source document: "<source>:<native reference>"
	ID string `json:"id"`
	// NativeRef is the identifier the document itself uses for this package,
	// such as a CycloneDX bom-ref, a package-url, or an SPDX element id
	NativeRef    string     `json:"nativeRef"`
	Name         string     `json:"name"`
	Version      string     `json:"version"`
	Source       string     `json:"source"`
	License      string     `json:"license"`
	Description  string     `json:"description,omitempty"`
	Dependencies Dependency `json:"dependencies"`

	DeclaredVulnerabilities []DeclaredVulnerability    `json:"declaredVulnerabilities"`
	FetchedVulnerabilities  []*osvschema.Vulnerability `json:"fetchedVulnerabilities"`

	// Scanned is set once an advisory lookup has been attempted for this package,
	// or when the source document already carried vulnerability data
	Scanned bool `json:"scanned"`
}

// WithScanResult returns a copy of the package with the given advisory records
// attached and the package marked as scanned.
//
// A nil or empty slice is valid, and is also how a failed lookup is recorded.
func (p Package) WithScanResult(fetched []*osvschema.Vulnerability) Package {
	if fetched == nil {
		fetched = []*osvschema.Vulnerability{}
	}

	p.FetchedVulnerabilities = fetched
	p.Scanned = true

	return p
}

// VulnerabilityCount is the number of records known for this package,
// counting both the ones declared by the document and the ones fetched.
func (p Package) VulnerabilityCount() int {
	return len(p.DeclaredVulnerabilities) + len(p.FetchedVulnerabilities)
}

// IsVulnerable reports whether the package has been scanned and has at
// least one known vulnerability.
func (p Package) IsVulnerable() bool {
	return p.Scanned && p.VulnerabilityCount() > 0
}
