package sbom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/ossf/osv-schema/bindings/go/osvschema"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// ancestry is the chain of bom-refs from the root of a dependency tree down to
// the node being built. Each branch extends its parent's chain without
// modifying it, so siblings never see each other's descendants.
type ancestry struct {
	ref    string
	parent *ancestry
}

func (a *ancestry) contains(ref string) bool {
	for ; a != nil; a = a.parent {
		if a.ref == ref {
			return true
		}
	}

	return false
}

type cycloneDXIndex struct {
	components      map[string]cyclonedx.Component
	dependsOn       map[string][]string
	vulnerabilities map[string][]models.DeclaredVulnerability
}

// stripQualifiers drops everything from the first "?" of a bom-ref, which is
// how purl-style refs carry qualifiers that vulnerability entries tend to omit.
func stripQualifiers(ref string) string {
	ref, _, _ = strings.Cut(ref, "?")

	return ref
}

func indexCycloneDX(bom *cyclonedx.BOM) cycloneDXIndex {
	idx := cycloneDXIndex{
		components:      map[string]cyclonedx.Component{},
		dependsOn:       map[string][]string{},
		vulnerabilities: map[string][]models.DeclaredVulnerability{},
	}

	if bom.Components != nil {
		for _, component := range *bom.Components {
			idx.components[component.BOMRef] = component
		}
	}

	if bom.Dependencies != nil {
		for _, dep := range *bom.Dependencies {
			if dep.Dependencies == nil {
				idx.dependsOn[dep.Ref] = []string{}
				continue
			}
			idx.dependsOn[dep.Ref] = *dep.Dependencies
		}
	}

	if bom.Vulnerabilities != nil {
		for _, vuln := range *bom.Vulnerabilities {
			declared := models.DeclaredVulnerability{Vulnerability: vuln}
			added := map[string]bool{}

			for _, ref := range declared.AffectedRefs() {
				key := stripQualifiers(ref)
				if added[key] {
					continue
				}
				added[key] = true
				idx.vulnerabilities[key] = append(idx.vulnerabilities[key], declared)
			}
		}
	}

	return idx
}

func (idx cycloneDXIndex) tree(ref string, chain *ancestry) models.Dependency {
	component, ok := idx.components[ref]
	if !ok {
		return models.Leaf(ref, models.UnknownVersion)
	}

	if chain.contains(ref) {
		return models.Leaf(component.Name, component.Version)
	}

	branch := &ancestry{ref: ref, parent: chain}
	childRefs := idx.dependsOn[ref]
	children := make([]models.Dependency, 0, len(childRefs))
	for _, childRef := range childRefs {
		children = append(children, idx.tree(childRef, branch))
	}

	return models.Dependency{
		Name:     component.Name,
		Version:  component.Version,
		Children: children,
	}
}

// cycloneDXLicense returns the first license of the component, preferring the
// SPDX id over the free-form name of a license entry.
func cycloneDXLicense(component cyclonedx.Component) string {
	if component.Licenses == nil || len(*component.Licenses) == 0 {
		return models.NoLicense
	}

	first := (*component.Licenses)[0]
	switch {
	case first.License != nil && first.License.ID != "":
		return first.License.ID
	case first.License != nil && first.License.Name != "":
		return first.License.Name
	case first.License == nil && first.Expression != "":
		return first.Expression
	}

	return models.NoLicense
}

// NormalizeCycloneDX builds the packages described by a CycloneDX document,
// in the order the document lists its components.
//
// Components of type "file" are skipped, though they can still appear as nodes
// in the dependency trees of other packages.
func NormalizeCycloneDX(bom *cyclonedx.BOM, source string) []models.Package {
	if bom.Components == nil {
		return []models.Package{}
	}

	idx := indexCycloneDX(bom)
	scanned := bom.Vulnerabilities != nil && len(*bom.Vulnerabilities) > 0
	ids := newIDAllocator(source)

	packages := make([]models.Package, 0, len(*bom.Components))
	for _, component := range *bom.Components {
		if component.Type == cyclonedx.ComponentTypeFile {
			continue
		}

		declared := idx.vulnerabilities[stripQualifiers(component.BOMRef)]
		if declared == nil {
			declared = []models.DeclaredVulnerability{}
		}

		packages = append(packages, models.Package{
			ID:                      ids.next(component.BOMRef),
			NativeRef:               component.BOMRef,
			Name:                    component.Name,
			Version:                 component.Version,
			Source:                  source,
			License:                 cycloneDXLicense(component),
			Description:             component.Description,
			Dependencies:            idx.tree(component.BOMRef, nil),
			DeclaredVulnerabilities: declared,
			FetchedVulnerabilities:  []*osvschema.Vulnerability{},
			Scanned:                 scanned,
		})
	}

	return packages
}

func decodeCycloneDX(data []byte) (*cyclonedx.BOM, error) {
	var bom cyclonedx.BOM

	err := cyclonedx.NewBOMDecoder(bytes.NewReader(data), cyclonedx.BOMFileFormatJSON).Decode(&bom)
	if err != nil {
		return nil, fmt.Errorf("failed to decode CycloneDX document: %w", err)
	}

	return &bom, nil
}
