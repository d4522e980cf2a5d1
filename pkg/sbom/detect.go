package sbom

import "github.com/tidwall/gjson"

// Format is the schema family a document belongs to.
type Format int

const (
	FormatUnsupported Format = iota
	FormatCycloneDX
	FormatSPDX
)

func (f Format) String() string {
	switch f {
	case FormatCycloneDX:
		return "CycloneDX"
	case FormatSPDX:
		return "SPDX"
	case FormatUnsupported:
		return "unsupported"
	}

	return "unsupported"
}

// DetectFormat classifies a parsed JSON document by its top-level markers.
//
// Only the markers are looked at: a document claiming to be CycloneDX is
// treated as such even if the rest of it is not valid CycloneDX.
func DetectFormat(doc gjson.Result) Format {
	if doc.Get("bomFormat").String() == "CycloneDX" {
		return FormatCycloneDX
	}

	if doc.Get("spdxVersion").Exists() {
		return FormatSPDX
	}

	return FormatUnsupported
}
