package helper

import (
	"fmt"
	"io"

	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/sbomscope/sbomscope/internal/output"
	"github.com/sbomscope/sbomscope/pkg/models"
)

// PrintPackages prints the summary of pkgs along with the given page of them
// in the given format.
//
// SARIF reports always cover every package in pkgs rather than just the page.
func PrintPackages(format string, pkgs []models.Package, page filter.Page[models.Package], w io.Writer, termWidth int) error {
	summary := output.Summarize(pkgs)

	switch format {
	case "table":
		output.PrintSummary(summary, w)
		fmt.Fprintln(w)
		output.PrintPackageTable(page, w, termWidth)

		return nil
	case "json":
		return output.PrintJSONResults(summary, page, w)
	case "sarif":
		return output.PrintSARIFReport(pkgs, w)
	}

	return fmt.Errorf("%v is not a valid format", format)
}
