package severity

import (
	"strings"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/ossf/osv-schema/bindings/go/osvschema"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// osvTypeCVSSV3 is the name of the OSV severity type holding CVSS v3.x vectors
const osvTypeCVSSV3 = "CVSS_V3"

// BaseScore parses a CVSS v3.0 or v3.1 vector and returns its base score.
//
// Vectors of any other version, and vectors that fail to parse, yield nil.
func BaseScore(vector string) *float64 {
	var score float64

	switch {
	case strings.HasPrefix(vector, "CVSS:3.1"):
		vec, err := gocvss31.ParseVector(vector)
		if err != nil {
			return nil
		}
		score = vec.BaseScore()
	case strings.HasPrefix(vector, "CVSS:3.0"):
		vec, err := gocvss30.ParseVector(vector)
		if err != nil {
			return nil
		}
		score = vec.BaseScore()
	default:
		return nil
	}

	return &score
}

// ScoreFromOSV returns the base score of the first CVSS v3 entry in the
// severity list of an OSV record.
func ScoreFromOSV(vuln *osvschema.Vulnerability) *float64 {
	for _, sev := range vuln.GetSeverity() {
		if sev.GetType().String() != osvTypeCVSSV3 {
			continue
		}

		return BaseScore(sev.GetScore())
	}

	return nil
}

// ScoreFromDeclared returns the score of a vulnerability declared in a CycloneDX
// document, preferring a rating that carries a numeric score and falling back
// to the first rating whose vector can be parsed.
func ScoreFromDeclared(vuln models.DeclaredVulnerability) *float64 {
	ratings := vuln.RatingList()

	for _, rating := range ratings {
		if rating.Score != nil {
			score := *rating.Score

			return &score
		}
	}

	for _, rating := range ratings {
		if !isCVSSv3Method(rating.Method) || rating.Vector == "" {
			continue
		}
		if score := BaseScore(rating.Vector); score != nil {
			return score
		}
	}

	return nil
}

func isCVSSv3Method(method cyclonedx.ScoringMethod) bool {
	switch method {
	case cyclonedx.ScoringMethodCVSSv3, cyclonedx.ScoringMethodCVSSv31, "":
		return true
	default:
		return false
	}
}

// OfOSV classifies an OSV record.
func OfOSV(vuln *osvschema.Vulnerability) models.Severity {
	return Classify(ScoreFromOSV(vuln))
}

// OfDeclared classifies a vulnerability declared in an SBOM.
func OfDeclared(vuln models.DeclaredVulnerability) models.Severity {
	return Classify(ScoreFromDeclared(vuln))
}
