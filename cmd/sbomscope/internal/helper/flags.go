package helper

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/filter"
	"github.com/sbomscope/sbomscope/internal/inventory"
	"github.com/urfave/cli/v3"
)

// human readable formats, which can be mixed with log output
var humanFormats = []string{"table", "tree"}

// GetGlobalFlags returns the flags that every command has.
func GetGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "config",
			Usage:     "set/override config file",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      "dir",
			Aliases:   []string{"d"},
			Usage:     "directory to load SBOM documents from, which can also contain an index.json and sbomscope.toml",
			Value:     ".",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:    "document",
			Aliases: []string{"D"},
			Usage:   "only load the document with this name, rather than every document in the directory",
			Value:   inventory.AllDocuments,
		},
		&cli.StringFlag{
			Name:  "verbosity",
			Usage: "specify the level of information that should be provided during runtime; value can be: " + strings.Join(cmdlogger.Levels(), ", "),
			Value: "info",
			Action: func(_ context.Context, _ *cli.Command, s string) error {
				lvl, err := cmdlogger.ParseLevel(s)
				if err != nil {
					return err
				}

				cmdlogger.SetLevel(lvl)

				return nil
			},
		},
	}
}

// GetFormatFlag returns a flag for choosing between the given output formats,
// the first of which is the default.
func GetFormatFlag(formats ...string) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "sets the output format; value can be: " + strings.Join(formats, ", "),
		Value:   formats[0],
		Action: func(_ context.Context, _ *cli.Command, s string) error {
			if !slices.Contains(formats, s) {
				return fmt.Errorf("unsupported output format \"%s\" - must be one of: %s", s, strings.Join(formats, ", "))
			}

			if !slices.Contains(humanFormats, s) {
				cmdlogger.SendEverythingToStderr()
			}

			return nil
		},
	}
}

// GetListingFlags returns the flags for narrowing down and paging through
// the loaded packages.
func GetListingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "source",
			Usage: "only show packages from the document with this name",
			Value: filter.AllSources,
		},
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "only show packages whose name or license contains this text, ignoring case",
		},
		&cli.BoolFlag{
			Name:  "vulnerable-only",
			Usage: "only show packages that have known vulnerabilities",
		},
		&cli.IntFlag{
			Name:    "page",
			Aliases: []string{"p"},
			Usage:   "page of packages to show",
			Value:   1,
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "number of packages to show per page",
			Value: filter.DefaultPageSize,
		},
		&cli.BoolFlag{
			Name:  "all-packages",
			Usage: "show every package on a single page",
		},
	}
}

// GetOutputFlag returns a flag for writing the result to a file.
func GetOutputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:      "output",
		Usage:     "saves the result to the given file path",
		TakesFile: true,
	}
}
