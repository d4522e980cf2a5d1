// Package filter narrows down and pages through a collection of packages.
package filter

import (
	"strings"

	"github.com/sbomscope/sbomscope/pkg/models"
)

// AllSources matches packages from every document.
const AllSources = "all"

type Options struct {
	// Source is the name of the document packages must come from, or AllSources
	Source string
	// Search is matched case-insensitively against the name and license
	Search string
	// VulnerableOnly keeps only packages that have been scanned and have at
	// least one vulnerability
	VulnerableOnly bool
}

func (o Options) matches(pkg models.Package) bool {
	if o.Source != "" && o.Source != AllSources && pkg.Source != o.Source {
		return false
	}

	if o.Search != "" {
		search := strings.ToLower(o.Search)

		if !strings.Contains(strings.ToLower(pkg.Name), search) &&
			!strings.Contains(strings.ToLower(pkg.License), search) {
			return false
		}
	}

	return !o.VulnerableOnly || pkg.IsVulnerable()
}

// Apply returns the packages matching every option, keeping their order.
func Apply(pkgs []models.Package, opts Options) []models.Package {
	matched := make([]models.Package, 0, len(pkgs))

	for _, pkg := range pkgs {
		if opts.matches(pkg) {
			matched = append(matched, pkg)
		}
	}

	return matched
}
