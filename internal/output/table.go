package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/reflow/truncate"
	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/sbomscope/sbomscope/internal/severity"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// maxNameWidth is how much of a package name is shown in the table.
const maxNameWidth = 40

func newTable(outputWriter io.Writer, terminalWidth int) table.Writer {
	outputTable := table.NewWriter()
	outputTable.SetOutputMirror(outputWriter)

	// use fancy characters and colors if we're outputting to a terminal
	if terminalWidth > 0 {
		outputTable.SetStyle(table.StyleRounded)
		outputTable.SetAllowedRowLength(terminalWidth)
		outputTable.Style().Options.DoNotColorBordersAndSeparators = true
		outputTable.Style().Color.Row = text.Colors{text.Reset, text.BgHiBlack}
		outputTable.Style().Color.RowAlternate = text.Colors{text.Reset, text.BgBlack}
	}

	return outputTable
}

// vulnerabilityCell describes the vulnerabilities of a package in one cell.
func vulnerabilityCell(pkg models.Package) string {
	if !pkg.Scanned {
		return "not scanned"
	}

	count := pkg.VulnerabilityCount()
	if count == 0 {
		return "none"
	}

	highest := severity.Highest(severity.OfPackage(pkg))

	return fmt.Sprintf("%d %s", count, RenderSeverityShort(highest))
}

// PrintPackageTable prints a page of packages as a human friendly table.
func PrintPackageTable(page filter.Page[models.Package], outputWriter io.Writer, terminalWidth int) {
	outputTable := newTable(outputWriter, terminalWidth)
	outputTable.AppendHeader(table.Row{"Package", "Version", "License", "Source", "Vulnerabilities"})

	for _, pkg := range page.Items {
		outputTable.AppendRow(table.Row{
			truncate.StringWithTail(pkg.Name, maxNameWidth, "..."),
			pkg.Version,
			pkg.License,
			pkg.Source,
			vulnerabilityCell(pkg),
		})
	}

	if page.Total == 0 {
		fmt.Fprintln(outputWriter, "No packages found.")
		return
	}

	if page.Count > 1 {
		outputTable.SetCaption("Page %d of %d (%d %s): %s",
			page.Number,
			page.Count,
			page.Total,
			Form(page.Total, "package", "packages"),
			pageRange(page),
		)
	}

	outputTable.Render()
}

// pageRange describes the pages that can be navigated to from the given page.
func pageRange(page filter.Page[models.Package]) string {
	numbers := filter.Range(page.Count, page.Number, 1)
	parts := make([]string, 0, len(numbers))

	for _, n := range numbers {
		switch n {
		case filter.Ellipsis:
			parts = append(parts, "...")
		case page.Number:
			parts = append(parts, "["+strconv.Itoa(n)+"]")
		default:
			parts = append(parts, strconv.Itoa(n))
		}
	}

	return strings.Join(parts, " ")
}
