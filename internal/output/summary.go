package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sbomscope/sbomscope/internal/grouper"
	"github.com/sbomscope/sbomscope/internal/severity"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// Summary holds the aggregate numbers shown above a list of packages.
type Summary struct {
	Packages   int `json:"packages"`
	Scanned    int `json:"scanned"`
	Vulnerable int `json:"vulnerable"`
	// UniqueVulnerabilities counts records that describe the same
	// vulnerability under different ids only once
	UniqueVulnerabilities int                  `json:"uniqueVulnerabilities"`
	Severity              models.SeverityCount `json:"severity"`
}

// Summarize computes the summary of the given packages.
func Summarize(pkgs []models.Package) Summary {
	summary := Summary{
		Packages: len(pkgs),
		Severity: severity.Count(pkgs),
	}

	for _, pkg := range pkgs {
		if pkg.Scanned {
			summary.Scanned++
		}
		if pkg.IsVulnerable() {
			summary.Vulnerable++
		}
	}

	summary.UniqueVulnerabilities = len(grouper.GroupByAliases(grouper.FromPackages(pkgs)))

	return summary
}

// PrintSummary prints a short human readable version of the summary.
func PrintSummary(summary Summary, out io.Writer) {
	fmt.Fprintf(
		out,
		"%d %s (%d scanned), %d %s with %d known %s (%s, %s, %s, %s, %s).\n",
		summary.Packages,
		Form(summary.Packages, "package", "packages"),
		summary.Scanned,
		summary.Vulnerable,
		Form(summary.Vulnerable, "is vulnerable", "are vulnerable"),
		summary.UniqueVulnerabilities,
		Form(summary.UniqueVulnerabilities, "vulnerability", "vulnerabilities"),
		text.FgRed.Sprintf("%d Critical", summary.Severity.Critical),
		text.FgHiYellow.Sprintf("%d High", summary.Severity.High),
		text.FgYellow.Sprintf("%d Medium", summary.Severity.Medium),
		text.FgHiCyan.Sprintf("%d Low", summary.Severity.Low),
		text.FgCyan.Sprintf("%d Unknown", summary.Severity.Unknown),
	)
}
