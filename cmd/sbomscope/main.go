package main

import (
	"io"
	"net/http"
	"os"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/cmd"
	"github.com/sbomscope/sbomscope/cmd/sbomscope/list"
	"github.com/sbomscope/sbomscope/cmd/sbomscope/scan"
	"github.com/sbomscope/sbomscope/cmd/sbomscope/show"
	"github.com/sbomscope/sbomscope/cmd/sbomscope/tree"
	"github.com/urfave/cli/v3"
)

func run(args []string, stdout, stderr io.Writer) int {
	return cmd.Run(args, stdout, stderr, []cmd.CommandBuilder{
		list.Command,
		func(stdout, stderr io.Writer) *cli.Command {
			return scan.Command(stdout, stderr, http.DefaultClient)
		},
		tree.Command,
		func(stdout, stderr io.Writer) *cli.Command {
			return show.Command(stdout, stderr, http.DefaultClient)
		},
	})
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
