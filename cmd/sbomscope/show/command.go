// Package show implements the `show` command for sbomscope.
package show

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/helper"
	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/config"
	"github.com/sbomscope/sbomscope/internal/depsdev"
	"github.com/sbomscope/sbomscope/internal/inventory"
	"github.com/sbomscope/sbomscope/internal/output"
	"github.com/sbomscope/sbomscope/pkg/models"
	"github.com/urfave/cli/v3"
)

var (
	ErrPackageRequired  = errors.New("a package id or name is required")
	ErrPackageNotFound  = errors.New("package not found")
	ErrPackageAmbiguous = errors.New("more than one package has that name")
)

func Command(stdout, _ io.Writer, client *http.Client) *cli.Command {
	flags := helper.GetGlobalFlags()
	flags = append(flags,
		helper.GetFormatFlag("table", "json"),
		helper.GetOutputFlag(),
		&cli.BoolFlag{
			Name:  "no-scan",
			Usage: "do not look up the vulnerabilities of the package in the OSV database",
		},
		&cli.BoolFlag{
			Name:  "no-health",
			Usage: "do not look up the source repository and health of the package",
		},
	)

	return &cli.Command{
		Name:        "show",
		Usage:       "shows everything known about a single package",
		Description: "shows the details of a package along with its dependency tree, vulnerabilities, and the health of the project behind it.",
		ArgsUsage:   "<package id or name>",
		Flags:       flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return action(ctx, cmd, stdout, client)
		},
	}
}

// find returns the package with the given id, or otherwise the only package
// with the given name.
func find(inv *inventory.Inventory, query string) (models.Package, error) {
	if pkg, ok := inv.Find(query); ok {
		return pkg, nil
	}

	var matches []models.Package
	for _, pkg := range inv.Packages() {
		if strings.EqualFold(pkg.Name, query) {
			matches = append(matches, pkg)
		}
	}

	switch len(matches) {
	case 0:
		return models.Package{}, fmt.Errorf("%w: %s", ErrPackageNotFound, query)
	case 1:
		return matches[0], nil
	}

	ids := make([]string, 0, len(matches))
	for _, pkg := range matches {
		ids = append(ids, pkg.ID)
	}

	return models.Package{}, fmt.Errorf("%w: %s (use one of %s)", ErrPackageAmbiguous, query, strings.Join(ids, ", "))
}

// lookupHealth returns the source repository of pkg and the health of its
// project, logging whatever prevented either from being found.
func lookupHealth(ctx context.Context, cfg config.Config, client *http.Client, pkg models.Package) (string, *depsdev.Health) {
	insights, err := helper.GetInsights(cfg, client)
	if err != nil {
		cmdlogger.Warnf("Failed to connect to deps.dev: %v", err)

		return "", nil
	}

	repo, health, err := insights.Health(ctx, pkg)
	switch {
	case errors.Is(err, depsdev.ErrNoRepository):
		cmdlogger.Infof("No source repository found for %s", pkg.Name)
	case err != nil:
		cmdlogger.Warnf("Failed to look up the health of %s: %v", pkg.Name, err)
	}

	return repo, health
}

func action(ctx context.Context, cmd *cli.Command, stdout io.Writer, client *http.Client) error {
	query := cmd.Args().First()
	if query == "" {
		return ErrPackageRequired
	}

	cfg := helper.GetConfig(cmd, "")

	inv, err := helper.GetInventory(cmd, cfg)
	if err != nil {
		return err
	}

	pkg, err := find(inv, query)
	if err != nil {
		return err
	}

	detail := output.Detail{Package: pkg}

	if !cmd.Bool("no-scan") {
		// failures have already been logged by the scanner
		detail.Package, _ = helper.GetScanner(&cfg, client).ScanPackage(ctx, pkg)
		helper.LogUnusedIgnores(&cfg)
	}

	if !cmd.Bool("no-health") {
		detail.Repository, detail.Health = lookupHealth(ctx, cfg, client, pkg)
	}

	return helper.PrintResult(stdout, cmd.String("output"), func(w io.Writer, termWidth int) error {
		if cmd.String("format") == "json" {
			return output.PrintJSONDetail(detail, w)
		}

		output.PrintDetail(detail, w, termWidth)

		return nil
	})
}
