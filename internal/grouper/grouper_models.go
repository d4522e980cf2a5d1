package grouper

import (
	"github.com/ossf/osv-schema/bindings/go/osvschema"
	"github.com/sbomscope/sbomscope/pkg/models"
)

type IDAliases struct {
	ID      string
	Aliases []string
}

// FromPackages collects the id and aliases of every vulnerability known for the
// given packages, declared and fetched alike.
//
// Declared records without an id cannot be grouped with anything and are skipped.
func FromPackages(pkgs []models.Package) []IDAliases {
	output := []IDAliases{}

	for _, pkg := range pkgs {
		for _, v := range pkg.DeclaredVulnerabilities {
			if v.ID == "" {
				continue
			}
			output = append(output, IDAliases{ID: v.ID})
		}
		output = append(output, FromOSV(pkg.FetchedVulnerabilities)...)
	}

	return output
}

// FromOSV converts advisory records for grouping.
func FromOSV(vs []*osvschema.Vulnerability) []IDAliases {
	output := make([]IDAliases, 0, len(vs))

	for _, v := range vs {
		output = append(output, IDAliases{ID: v.GetId(), Aliases: v.GetAliases()})
	}

	return output
}
