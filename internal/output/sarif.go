package output

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/sbomscope/sbomscope/internal/grouper"
	"github.com/sbomscope/sbomscope/internal/severity"
	"github.com/sbomscope/sbomscope/internal/version"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// OSVBaseVulnerabilityURL is the base URL for detailed vulnerability views.
const OSVBaseVulnerabilityURL = "https://osv.dev/vulnerability/"

// finding is one vulnerability record of one package, reduced to what the
// SARIF report needs.
type finding struct {
	pkg      models.Package
	id       string
	aliases  []string
	summary  string
	details  string
	severity models.Severity
}

func findingsOf(pkg models.Package) []finding {
	findings := make([]finding, 0, pkg.VulnerabilityCount())

	for _, v := range pkg.DeclaredVulnerabilities {
		if v.ID == "" {
			continue
		}
		findings = append(findings, finding{
			pkg:      pkg,
			id:       v.ID,
			details:  v.Description,
			severity: severity.OfDeclared(v),
		})
	}

	for _, v := range pkg.FetchedVulnerabilities {
		findings = append(findings, finding{
			pkg:      pkg,
			id:       v.GetId(),
			aliases:  v.GetAliases(),
			summary:  v.GetSummary(),
			details:  v.GetDetails(),
			severity: severity.OfOSV(v),
		})
	}

	return findings
}

// sarifLevel maps a severity onto the levels SARIF results can have.
func sarifLevel(sev models.Severity) string {
	switch sev {
	case models.SeverityCritical, models.SeverityHigh:
		return "error"
	case models.SeverityMedium:
		return "warning"
	case models.SeverityLow, models.SeverityUnknown:
		return "note"
	}

	return "warning"
}

// createSARIFAffectedPkgTable creates a table of the packages affected by a vulnerability
func createSARIFAffectedPkgTable(findings []finding) table.Writer {
	helpTable := table.NewWriter()
	helpTable.AppendHeader(table.Row{"Source", "Package Name", "Package Version"})

	for _, f := range findings {
		helpTable.AppendRow(table.Row{f.pkg.Source, f.pkg.Name, f.pkg.Version})
	}

	return helpTable
}

func createSARIFHelpText(displayID string, ids []string, findings []finding) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "**Your dependency is vulnerable to [%s](%s%s)**", displayID, OSVBaseVulnerabilityURL, displayID)
	if len(ids) > 1 {
		fmt.Fprintf(&sb, " (also published as %s)", strings.Join(ids[1:], ", "))
	}
	sb.WriteString(".\n\n### Affected Packages\n\n")
	sb.WriteString(createSARIFAffectedPkgTable(findings).RenderMarkdown())
	sb.WriteString("\n\n## Remediation\n\n")
	sb.WriteString("If you believe this vulnerability does not affect your project, add it to the ignore list in a ")
	sb.WriteString("`sbomscope.toml` file in the SBOM directory:\n\n")
	fmt.Fprintf(&sb, "```\n[[IgnoredVulns]]\nid = %q\nreason = \"Your reason for ignoring this vulnerability\"\n```\n", displayID)

	return sb.String()
}

// PrintSARIFReport prints a SARIF report of every vulnerability of the given
// packages, with one rule per vulnerability after grouping aliases together.
func PrintSARIFReport(pkgs []models.Package, outputWriter io.Writer) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("sbomscope", "https://github.com/sbomscope/sbomscope")
	run.Tool.Driver.WithVersion(version.SbomscopeVersion)

	var findings []finding
	var idAliases []grouper.IDAliases
	for _, pkg := range pkgs {
		for _, f := range findingsOf(pkg) {
			findings = append(findings, f)
			idAliases = append(idAliases, grouper.IDAliases{ID: f.id, Aliases: f.aliases})
		}
	}

	groups := grouper.GroupByAliases(idAliases)
	slices.SortFunc(groups, func(a, b grouper.Group) int {
		return strings.Compare(a.DisplayID(), b.DisplayID())
	})

	for _, group := range groups {
		var grouped []finding
		for _, f := range findings {
			if slices.Contains(group.IDs, f.id) {
				grouped = append(grouped, f)
			}
		}

		displayID := group.DisplayID()
		shortDescription := displayID
		var longDescription string
		highest := models.SeverityUnknown

		for _, f := range grouped {
			if longDescription == "" {
				longDescription = f.details
			}
			if f.summary != "" && shortDescription == displayID {
				shortDescription = fmt.Sprintf("%s: %s", displayID, f.summary)
			}
			if f.severity.Rank() > highest.Rank() {
				highest = f.severity
			}
		}

		helpText := createSARIFHelpText(displayID, group.IDs, grouped)

		rule := run.AddRule(displayID).
			WithName(displayID).
			WithShortDescription(sarif.NewMultiformatMessageString(shortDescription)).
			WithFullDescription(sarif.NewMultiformatMessageString(longDescription).WithMarkdown(longDescription)).
			WithMarkdownHelp(helpText).
			WithTextHelp(helpText).
			WithProperties(sarif.Properties{"severity": highest.String()})

		rule.DeprecatedIds = group.Aliases

		for _, f := range grouped {
			run.AddDistinctArtifact(f.pkg.Source)

			run.CreateResultForRule(displayID).
				WithLevel(sarifLevel(f.severity)).
				WithMessage(sarif.NewTextMessage(fmt.Sprintf(
					"Package '%s@%s' is vulnerable to '%s'.",
					f.pkg.Name,
					f.pkg.Version,
					displayID,
				))).
				AddLocation(
					sarif.NewLocationWithPhysicalLocation(
						sarif.NewPhysicalLocation().
							WithArtifactLocation(sarif.NewSimpleArtifactLocation(f.pkg.Source)),
					).WithLogicalLocations([]*sarif.LogicalLocation{
						sarif.NewLogicalLocation().
							WithName(f.pkg.Name).
							WithFullyQualifiedName(f.pkg.ID).
							WithKind("package"),
					}))
		}
	}

	report.AddRun(run)

	err = report.PrettyWrite(outputWriter)
	if err != nil {
		return err
	}
	fmt.Fprintln(outputWriter)

	return nil
}
