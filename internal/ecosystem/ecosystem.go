// Package ecosystem resolves which advisory ecosystem a package belongs to,
// based on the package-url it is identified by.
package ecosystem

import (
	"strings"

	"github.com/ossf/osv-schema/bindings/go/osvconstants"
	"github.com/package-url/packageurl-go"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// used like so: purlEcosystems[PkgURL.Type][PkgURL.Namespace]
// * means it should match any namespace string
var purlEcosystems = map[string]map[string]osvconstants.Ecosystem{
	"apk":   {"alpine": osvconstants.EcosystemAlpine},
	"cargo": {"*": osvconstants.EcosystemCratesIO},
	"deb": {"debian": osvconstants.EcosystemDebian,
		"ubuntu": osvconstants.EcosystemUbuntu},
	"hex":      {"*": osvconstants.EcosystemHex},
	"golang":   {"*": osvconstants.EcosystemGo},
	"maven":    {"*": osvconstants.EcosystemMaven},
	"nuget":    {"*": osvconstants.EcosystemNuGet},
	"npm":      {"*": osvconstants.EcosystemNPM},
	"composer": {"*": osvconstants.EcosystemPackagist},
	"pypi":     {"*": osvconstants.EcosystemPyPI},
	"gem":      {"*": osvconstants.EcosystemRubyGems},
}

// Target is what gets looked up in the advisory feed for a package.
type Target struct {
	Name      string
	Version   string
	Ecosystem osvconstants.Ecosystem
	// PURLType is the lowercased package-url type the ecosystem came from
	PURLType string
}

// FromPURLType returns the ecosystem of a package-url type, for types that
// map to one ecosystem regardless of namespace.
func FromPURLType(purlType string) (osvconstants.Ecosystem, bool) {
	eco, ok := purlEcosystems[strings.ToLower(purlType)]["*"]

	return eco, ok
}

func fromPURL(purl packageurl.PackageURL) (osvconstants.Ecosystem, bool) {
	ecoMap, ok := purlEcosystems[purl.Type]
	if !ok {
		return "", false
	}

	if eco, ok := ecoMap["*"]; ok {
		return eco, true
	}

	eco, ok := ecoMap[purl.Namespace]

	return eco, ok
}

// purlName returns the package name in the form the advisory feed expects.
func purlName(purl packageurl.PackageURL, eco osvconstants.Ecosystem) string {
	if purl.Namespace == "" {
		return purl.Name
	}

	switch eco { //nolint:exhaustive
	case osvconstants.EcosystemMaven:
		// Maven uses : to separate namespace and package
		return purl.Namespace + ":" + purl.Name
	case osvconstants.EcosystemDebian, osvconstants.EcosystemUbuntu, osvconstants.EcosystemAlpine:
		// Debian and Alpine repeat their namespace in PURL, so don't add it to the name
		return purl.Name
	default:
		return purl.Namespace + "/" + purl.Name
	}
}

// purlType extracts the type of something that looks like a package-url but
// does not fully parse as one.
func purlType(ref string) string {
	rest, ok := strings.CutPrefix(ref, "pkg:")
	if !ok {
		return ""
	}
	typ, _, _ := strings.Cut(rest, "/")

	return strings.ToLower(typ)
}

// Resolve works out what to look up in the advisory feed for the package.
//
// Packages whose native reference is not a package-url of a supported type
// cannot be resolved, which makes them unscannable rather than erroneous.
func Resolve(pkg models.Package) (Target, bool) {
	purl, err := packageurl.FromString(pkg.NativeRef)
	if err != nil {
		typ := purlType(pkg.NativeRef)
		eco, ok := FromPURLType(typ)
		if !ok || pkg.Name == "" {
			return Target{}, false
		}

		return Target{Name: pkg.Name, Version: pkg.Version, Ecosystem: eco, PURLType: typ}, true
	}

	eco, ok := fromPURL(purl)
	if !ok {
		return Target{}, false
	}

	version := pkg.Version
	if version == "" {
		version = purl.Version
	}

	return Target{Name: purlName(purl, eco), Version: version, Ecosystem: eco, PURLType: purl.Type}, true
}
