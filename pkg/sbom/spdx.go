package sbom

import (
	"bytes"
	"fmt"

	"github.com/ossf/osv-schema/bindings/go/osvschema"
	"github.com/sbomscope/sbomscope/pkg/models"
	spdxjson "github.com/spdx/tools-golang/json"
	"github.com/spdx/tools-golang/spdx"
	"github.com/spdx/tools-golang/spdx/v2/common"
)

// elementIDPrefix is stripped from element ids by the decoder.
const elementIDPrefix = "SPDXRef-"

const noAssertion = "NOASSERTION"

const (
	relationshipDependsOn    = "DEPENDS_ON"
	relationshipContains     = "CONTAINS"
	relationshipDependencyOf = "DEPENDENCY_OF"
)

type spdxIndex struct {
	packages map[common.ElementID]*spdx.Package
	children map[common.ElementID][]common.ElementID
}

// localElement returns the id of an element in this document, or false for
// references into other documents and the special NONE/NOASSERTION values.
func localElement(id common.DocElementID) (common.ElementID, bool) {
	if id.DocumentRefID != "" || id.SpecialID != "" || id.ElementRefID == "" {
		return "", false
	}

	return id.ElementRefID, true
}

func indexSPDX(doc *spdx.Document) spdxIndex {
	idx := spdxIndex{
		packages: map[common.ElementID]*spdx.Package{},
		children: map[common.ElementID][]common.ElementID{},
	}

	for _, pkg := range doc.Packages {
		if pkg == nil {
			continue
		}
		idx.packages[pkg.PackageSPDXIdentifier] = pkg
	}

	for _, rel := range doc.Relationships {
		if rel == nil {
			continue
		}

		a, okA := localElement(rel.RefA)
		b, okB := localElement(rel.RefB)
		if !okA || !okB {
			continue
		}

		switch rel.Relationship {
		case relationshipDependsOn, relationshipContains:
			idx.children[a] = append(idx.children[a], b)
		case relationshipDependencyOf:
			idx.children[b] = append(idx.children[b], a)
		}
	}

	return idx
}

// tree builds the dependency tree of id. The seen set is shared by the whole
// tree, so an element appears at most once and repeats are left out entirely.
func (idx spdxIndex) tree(id common.ElementID, seen map[common.ElementID]bool) models.Dependency {
	pkg := idx.packages[id]
	seen[id] = true

	children := []models.Dependency{}
	for _, child := range idx.children[id] {
		if _, ok := idx.packages[child]; !ok || seen[child] {
			continue
		}
		children = append(children, idx.tree(child, seen))
	}

	return models.Dependency{
		Name:     pkg.PackageName,
		Version:  pkg.PackageVersion,
		Children: children,
	}
}

func spdxLicense(pkg *spdx.Package) string {
	if pkg.PackageLicenseDeclared == "" || pkg.PackageLicenseDeclared == noAssertion {
		return models.NoLicense
	}

	return pkg.PackageLicenseDeclared
}

// spdxNativeRef prefers the package-url of a package over its element id.
func spdxNativeRef(pkg *spdx.Package) string {
	for _, ref := range pkg.PackageExternalReferences {
		if ref != nil && ref.RefType == "purl" && ref.Locator != "" {
			return ref.Locator
		}
	}

	return elementIDPrefix + string(pkg.PackageSPDXIdentifier)
}

// NormalizeSPDX builds the packages described by an SPDX document, in the
// order the document lists them.
//
// SPDX documents cannot declare vulnerabilities, so every package starts out
// not scanned.
func NormalizeSPDX(doc *spdx.Document, source string) []models.Package {
	idx := indexSPDX(doc)
	ids := newIDAllocator(source)

	packages := make([]models.Package, 0, len(doc.Packages))
	for _, pkg := range doc.Packages {
		if pkg == nil {
			continue
		}

		packages = append(packages, models.Package{
			ID:                      ids.next(elementIDPrefix + string(pkg.PackageSPDXIdentifier)),
			NativeRef:               spdxNativeRef(pkg),
			Name:                    pkg.PackageName,
			Version:                 pkg.PackageVersion,
			Source:                  source,
			License:                 spdxLicense(pkg),
			Description:             pkg.PackageDescription,
			Dependencies:            idx.tree(pkg.PackageSPDXIdentifier, map[common.ElementID]bool{}),
			DeclaredVulnerabilities: []models.DeclaredVulnerability{},
			FetchedVulnerabilities:  []*osvschema.Vulnerability{},
			Scanned:                 false,
		})
	}

	return packages
}

func decodeSPDX(data []byte) (*spdx.Document, error) {
	doc, err := spdxjson.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode SPDX document: %w", err)
	}

	return doc, nil
}
