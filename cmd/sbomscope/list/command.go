// Package list implements the `list` command for sbomscope.
package list

import (
	"context"
	"io"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/helper"
	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/urfave/cli/v3"
)

func Command(stdout, _ io.Writer) *cli.Command {
	flags := helper.GetGlobalFlags()
	flags = append(flags, helper.GetListingFlags()...)
	flags = append(flags, helper.GetFormatFlag("table", "json"), helper.GetOutputFlag())

	return &cli.Command{
		Name:        "list",
		Usage:       "lists the packages described by the SBOM documents in a directory",
		Description: "loads every CycloneDX and SPDX document in a directory and lists their packages, along with any vulnerabilities the documents declare.",
		ArgsUsage:   "[directory]",
		Flags:       flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			return action(cmd, stdout)
		},
	}
}

func action(cmd *cli.Command, stdout io.Writer) error {
	cfg := helper.GetConfig(cmd, cmd.Args().First())

	inv, err := helper.GetInventory(cmd, cfg)
	if err != nil {
		return err
	}

	pkgs := filter.Apply(inv.Packages(), helper.GetFilterOptions(cmd))
	page := helper.GetPage(cmd, pkgs)

	return helper.PrintResult(stdout, cmd.String("output"), func(w io.Writer, termWidth int) error {
		return helper.PrintPackages(cmd.String("format"), pkgs, page, w, termWidth)
	})
}
