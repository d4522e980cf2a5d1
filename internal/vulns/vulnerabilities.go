// Package vulns reconciles vulnerability records reported by an SBOM with the
// records fetched for the same package from an advisory database.
package vulns

import (
	"slices"

	"github.com/ossf/osv-schema/bindings/go/osvschema"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// Identity is every identifier a vulnerability record is known by.
type Identity []string

// IdentityOfDeclared returns the identity of a record declared in an SBOM,
// which is only ever its own id, and only if it has one.
func IdentityOfDeclared(v models.DeclaredVulnerability) Identity {
	if v.ID == "" {
		return Identity{}
	}

	return Identity{v.ID}
}

// IdentityOfFetched returns the id of an advisory record together with its aliases.
func IdentityOfFetched(v *osvschema.Vulnerability) Identity {
	ids := make(Identity, 0, len(v.GetAliases())+1)
	if v.GetId() != "" {
		ids = append(ids, v.GetId())
	}
	for _, alias := range v.GetAliases() {
		if alias != "" {
			ids = append(ids, alias)
		}
	}

	return ids
}

// Intersects reports whether the two identities share at least one identifier,
// meaning that they describe the same vulnerability.
func (id Identity) Intersects(other Identity) bool {
	for _, i := range id {
		if slices.Contains(other, i) {
			return true
		}
	}

	return false
}

// Reconcile drops every fetched record that describes a vulnerability already
// declared by the SBOM, matching on the id and aliases of the fetched record.
//
// Declared records are never dropped; the order of the fetched records that
// survive is preserved.
func Reconcile(declared []models.DeclaredVulnerability, fetched []*osvschema.Vulnerability) []*osvschema.Vulnerability {
	known := make(Identity, 0, len(declared))
	for _, v := range declared {
		known = append(known, IdentityOfDeclared(v)...)
	}

	reconciled := make([]*osvschema.Vulnerability, 0, len(fetched))
	for _, v := range fetched {
		if IdentityOfFetched(v).Intersects(known) {
			continue
		}
		reconciled = append(reconciled, v)
	}

	return reconciled
}
