package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/ossf/osv-schema/bindings/go/osvschema"
	"github.com/sbomscope/sbomscope/internal/depsdev"
	"github.com/sbomscope/sbomscope/internal/severity"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// NoDescription is shown in place of a package description that is missing.
const NoDescription = "No description available."

// defaultDetailWidth is used for wrapping when not writing to a terminal.
const defaultDetailWidth = 80

// Detail is everything known about a single package.
type Detail struct {
	Package models.Package
	// Repository is the source repository of the package, if one was found
	Repository string
	// Health is the health of the project behind the package, if known
	Health *depsdev.Health
}

type detailPrinter struct {
	out     io.Writer
	width   int
	mdStyle ansi.StyleConfig
}

func newDetailPrinter(out io.Writer, terminalWidth int) *detailPrinter {
	p := &detailPrinter{out: out, width: terminalWidth}

	switch {
	case terminalWidth <= 0:
		p.width = defaultDetailWidth
		p.mdStyle = styles.NoTTYStyleConfig
	case lipgloss.HasDarkBackground():
		p.mdStyle = styles.DarkStyleConfig
	default:
		p.mdStyle = styles.LightStyleConfig
	}

	// remove the padding/margins from the default markdown style
	margin := uint(0)
	p.mdStyle.Document.Margin = &margin
	p.mdStyle.Document.BlockPrefix = ""

	return p
}

func (p *detailPrinter) heading(s string) {
	fmt.Fprintln(p.out, headingStyle.Render(s))
}

func (p *detailPrinter) field(name, value string) {
	fmt.Fprintf(p.out, "%-13s %s\n", name+":", value)
}

// markdown renders OSV details, which are written in markdown, falling back
// to plain wrapped text if rendering fails.
func (p *detailPrinter) markdown(s string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(p.mdStyle),
		glamour.WithWordWrap(p.width),
	)

	var rendered string
	if err == nil {
		rendered, err = r.Render(s)
	}
	if err != nil {
		return wordwrap.String(s, p.width)
	}

	return strings.Trim(rendered, "\n")
}

func (p *detailPrinter) declared(v models.DeclaredVulnerability) {
	score := severity.ScoreFromDeclared(v)
	fmt.Fprintf(p.out, "%s %s (declared)\n", RenderSeverity(severity.Classify(score), score), v.ID)

	if v.Description != "" {
		fmt.Fprintln(p.out, indent.String(wordwrap.String(v.Description, p.width-2), 2))
	}
}

func (p *detailPrinter) fetched(v *osvschema.Vulnerability) {
	score := severity.ScoreFromOSV(v)
	fmt.Fprintf(p.out, "%s %s", RenderSeverity(severity.Classify(score), score), v.GetId())
	if len(v.GetAliases()) > 0 {
		fmt.Fprintf(p.out, " (also known as %s)", strings.Join(v.GetAliases(), ", "))
	}
	fmt.Fprintln(p.out)

	if v.GetSummary() != "" {
		fmt.Fprintln(p.out, indent.String(wordwrap.String(v.GetSummary(), p.width-2), 2))
	}
	if v.GetDetails() != "" {
		fmt.Fprintln(p.out, indent.String(p.markdown(v.GetDetails()), 2))
	}
	fmt.Fprintf(p.out, "  %s%s\n", OSVBaseVulnerabilityURL, v.GetId())
}

func (p *detailPrinter) health(h *depsdev.Health) {
	p.field("Project", h.ProjectKey)
	p.field("Stars", fmt.Sprint(h.Stars))
	p.field("Forks", fmt.Sprint(h.Forks))
	p.field("Open issues", fmt.Sprint(h.OpenIssues))

	if h.Scorecard == nil {
		return
	}

	p.field("Scorecard", fmt.Sprintf("%.1f/10 (%s)", h.Scorecard.OverallScore, h.Scorecard.Date.Format("2006-01-02")))
	for _, check := range h.Scorecard.Checks {
		fmt.Fprintf(p.out, "  %-24s %2d/10\n", check.Name, check.Score)
	}
}

// PrintDetail prints everything known about a package in a human friendly form.
func PrintDetail(detail Detail, outputWriter io.Writer, terminalWidth int) {
	p := newDetailPrinter(outputWriter, terminalWidth)
	pkg := detail.Package

	p.heading(pkg.Name)
	p.field("Version", pkg.Version)
	p.field("License", pkg.License)
	p.field("Source", pkg.Source)
	p.field("Reference", pkg.NativeRef)
	if detail.Repository != "" {
		p.field("Repository", detail.Repository)
	}

	description := pkg.Description
	if description == "" {
		description = NoDescription
	}
	fmt.Fprintln(outputWriter)
	fmt.Fprintln(outputWriter, wordwrap.String(description, p.width))

	if detail.Health != nil {
		fmt.Fprintln(outputWriter)
		p.heading("Health")
		p.health(detail.Health)
	}

	fmt.Fprintln(outputWriter)
	p.heading("Dependencies")
	fmt.Fprintln(outputWriter, describeTree(pkg.Dependencies))
	fmt.Fprintln(outputWriter, RenderTree(pkg.Dependencies))

	fmt.Fprintln(outputWriter)
	p.heading("Vulnerabilities")

	switch {
	case !pkg.Scanned:
		fmt.Fprintln(outputWriter, "Not scanned yet.")
		return
	case pkg.VulnerabilityCount() == 0:
		fmt.Fprintln(outputWriter, "No known vulnerabilities.")
		return
	}

	for _, v := range pkg.DeclaredVulnerabilities {
		p.declared(v)
	}
	for _, v := range pkg.FetchedVulnerabilities {
		p.fetched(v)
	}
}
