package models

import (
	"github.com/CycloneDX/cyclonedx-go"
)

// DeclaredVulnerability is a vulnerability record embedded in an SBOM document,
// as opposed to one fetched from an advisory database.
//
// Only CycloneDX documents are able to carry these.
type DeclaredVulnerability struct {
	cyclonedx.Vulnerability
}

// RatingList returns the ratings attached to the record, if any.
func (v DeclaredVulnerability) RatingList() []cyclonedx.VulnerabilityRating {
	if v.Vulnerability.Ratings == nil {
		return nil
	}

	return *v.Vulnerability.Ratings
}

// AffectedRefs returns the bom-refs this record claims to affect, exactly as
// written in the document.
func (v DeclaredVulnerability) AffectedRefs() []string {
	if v.Affects == nil {
		return nil
	}

	refs := make([]string, 0, len(*v.Affects))
	for _, affected := range *v.Affects {
		if affected.Ref != "" {
			refs = append(refs, affected.Ref)
		}
	}

	return refs
}
