package severity

import "github.com/sbomscope/sbomscope/pkg/models"

// CountPackage tallies every vulnerability known for the package, both the
// ones declared by its document and the ones fetched from the advisory feed.
func CountPackage(pkg models.Package) models.SeverityCount {
	var count models.SeverityCount

	for _, s := range OfPackage(pkg) {
		count.Add(s)
	}

	return count
}

// Count tallies the vulnerabilities of every package.
func Count(pkgs []models.Package) models.SeverityCount {
	var total models.SeverityCount

	for _, pkg := range pkgs {
		c := CountPackage(pkg)
		total.Critical += c.Critical
		total.High += c.High
		total.Medium += c.Medium
		total.Low += c.Low
		total.Unknown += c.Unknown
	}

	return total
}

// OfPackage classifies every record known for the package, declared records
// first, in the order they appear on the package.
func OfPackage(pkg models.Package) []models.Severity {
	out := make([]models.Severity, 0, pkg.VulnerabilityCount())

	for _, v := range pkg.DeclaredVulnerabilities {
		out = append(out, OfDeclared(v))
	}
	for _, v := range pkg.FetchedVulnerabilities {
		out = append(out, OfOSV(v))
	}

	return out
}

// Highest returns the most severe of the given severities, or unknown when
// there are none.
func Highest(sevs []models.Severity) models.Severity {
	highest := models.SeverityUnknown
	for _, s := range sevs {
		if s.Rank() > highest.Rank() {
			highest = s
		}
	}

	return highest
}
