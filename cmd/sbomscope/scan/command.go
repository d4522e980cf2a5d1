// Package scan implements the `scan` command for sbomscope.
package scan

import (
	"context"
	"io"
	"net/http"
	"slices"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/helper"
	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/sbomscope/sbomscope/internal/output"
	"github.com/sbomscope/sbomscope/internal/scanner"
	"github.com/sbomscope/sbomscope/pkg/models"
	"github.com/urfave/cli/v3"
)

func Command(stdout, _ io.Writer, client *http.Client) *cli.Command {
	flags := helper.GetGlobalFlags()
	flags = append(flags, helper.GetListingFlags()...)
	flags = append(flags,
		helper.GetFormatFlag("table", "json", "sarif"),
		helper.GetOutputFlag(),
		&cli.BoolFlag{
			Name:  "fail-on-vuln",
			Usage: "exit with a non-zero code if any of the shown packages have vulnerabilities",
		},
	)

	return &cli.Command{
		Name:        "scan",
		Usage:       "checks the packages described by the SBOM documents in a directory against the OSV database",
		Description: "loads every CycloneDX and SPDX document in a directory and looks up the known vulnerabilities of their packages, leaving out any the documents already declare.",
		ArgsUsage:   "[directory]",
		Flags:       flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return action(ctx, cmd, stdout, client)
		},
	}
}

func action(ctx context.Context, cmd *cli.Command, stdout io.Writer, client *http.Client) error {
	cfg := helper.GetConfig(cmd, cmd.Args().First())

	inv, err := helper.GetInventory(cmd, cfg)
	if err != nil {
		return err
	}

	opts := helper.GetFilterOptions(cmd)

	// whether a package is vulnerable is only known once it has been scanned
	toScan := opts
	toScan.VulnerableOnly = false

	targets := filter.Apply(inv.Packages(), toScan)
	scannable := 0
	for _, pkg := range targets {
		if scanner.Scannable(pkg) {
			scannable++
		}
	}
	cmdlogger.Infof("Checking %d %s against the OSV database", scannable, output.Form(scannable, "package", "packages"))

	scanned, scanErrs := helper.GetScanner(&cfg, client).ScanAll(ctx, targets)
	inv.Apply(scanned)

	if len(scanErrs) > 0 {
		cmdlogger.Warnf("Failed to check %d %s", len(scanErrs), output.Form(len(scanErrs), "package", "packages"))
	}

	helper.LogUnusedIgnores(&cfg)

	pkgs := filter.Apply(inv.Packages(), opts)
	page := helper.GetPage(cmd, pkgs)

	err = helper.PrintResult(stdout, cmd.String("output"), func(w io.Writer, termWidth int) error {
		return helper.PrintPackages(cmd.String("format"), pkgs, page, w, termWidth)
	})
	if err != nil {
		return err
	}

	if cmd.Bool("fail-on-vuln") && slices.ContainsFunc(pkgs, models.Package.IsVulnerable) {
		return helper.ErrVulnerabilitiesFound
	}

	return nil
}
