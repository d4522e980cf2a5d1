// Package severity buckets vulnerabilities by their CVSS v3 base score.
package severity

import (
	"math"
	"strconv"
	"strings"

	"github.com/sbomscope/sbomscope/pkg/models"
)

// Classify maps a resolved base score to a severity.
//
// Lower bounds are inclusive and upper bounds exclusive. A missing score, a
// score of zero, and anything that is not a number all map to unknown.
func Classify(score *float64) models.Severity {
	if score == nil || math.IsNaN(*score) {
		return models.SeverityUnknown
	}

	switch s := *score; {
	case s >= 9.0:
		return models.SeverityCritical
	case s >= 7.0:
		return models.SeverityHigh
	case s >= 4.0:
		return models.SeverityMedium
	case s > 0:
		return models.SeverityLow
	default:
		return models.SeverityUnknown
	}
}

// ClassifyString is like Classify, for scores that have not been parsed yet.
func ClassifyString(score string) models.Severity {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
	if err != nil {
		return models.SeverityUnknown
	}

	return Classify(&parsed)
}
