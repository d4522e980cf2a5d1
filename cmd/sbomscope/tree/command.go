// Package tree implements the `tree` command for sbomscope.
package tree

import (
	"context"
	"fmt"
	"io"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/helper"
	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/sbomscope/sbomscope/internal/output"
	"github.com/urfave/cli/v3"
)

func Command(stdout, _ io.Writer) *cli.Command {
	flags := helper.GetGlobalFlags()
	flags = append(flags, helper.GetListingFlags()...)
	flags = append(flags, helper.GetOutputFlag())

	return &cli.Command{
		Name:        "tree",
		Usage:       "prints the dependency tree of the packages described by the SBOM documents in a directory",
		Description: "prints the dependency tree of every package, as described by the document it came from.",
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

	return helper.PrintResult(stdout, cmd.String("output"), func(w io.Writer, _ int) error {
		if len(page.Items) == 0 {
			fmt.Fprintln(w, "No packages found.")

			return nil
		}

		output.PrintTree(page.Items, w)

		return nil
	})
}
