package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/helper"
	"github.com/sbomscope/sbomscope/internal/cmdlogger"
	"github.com/sbomscope/sbomscope/internal/inventory"
	"github.com/sbomscope/sbomscope/internal/testlogger"
	"github.com/sbomscope/sbomscope/internal/version"
	"github.com/sbomscope/sbomscope/pkg/sbom"
	"github.com/urfave/cli/v3"
)

var (
	commit = "n/a"
	date   = "n/a"
)

// DefaultCommand is run when no command is given.
const DefaultCommand = "list"

// Exit codes, other than 0 for success.
const (
	ExitVulnerabilitiesFound = 1
	ExitGenericError         = 127
	ExitNoDocuments          = 128
	ExitInvalidConfig        = 130
)

type CommandBuilder = func(stdout, stderr io.Writer) *cli.Command

// useLogger makes logHandler the destination of every log call, returning a
// func that undoes that.
//
// Tests share one global logger, which routes each call to the handler of the
// test that made it.
func useLogger(logHandler cmdlogger.CmdLogger) func() {
	if !testing.Testing() {
		slog.SetDefault(slog.New(logHandler))

		return func() {}
	}

	handler, ok := slog.Default().Handler().(*testlogger.Handler)
	if !ok {
		panic("Test failed to initialize default logger with Handler")
	}

	handler.AddInstance(logHandler)

	return handler.Delete
}

// exitCode maps the outcome of running a command to the code to exit with,
// logging the error if it has not been already.
func exitCode(err error, logHandler cmdlogger.CmdLogger) int {
	// an invalid config is likely the cause of any other errors
	if logHandler.HasErroredBecauseInvalidConfig() {
		return ExitInvalidConfig
	}

	switch {
	case err == nil:
	case errors.Is(err, helper.ErrVulnerabilitiesFound):
		return ExitVulnerabilitiesFound
	case errors.Is(err, sbom.ErrNoDocuments):
		cmdlogger.Errorf("No SBOM documents found, --help for usage information.")

		return ExitNoDocuments
	case errors.Is(err, inventory.ErrUnknownDocument):
		cmdlogger.Errorf("%v", err)

		return ExitNoDocuments
	default:
		cmdlogger.Errorf("%v", err)
	}

	if logHandler.HasErrored() {
		return ExitGenericError
	}

	return 0
}

// Run runs sbomscope with the given args, returning the code to exit with.
func Run(args []string, stdout, stderr io.Writer, commands []CommandBuilder) int {
	// the help flag of urfave/cli is a global, which races when commands are
	// run by parallel tests (https://github.com/urfave/cli/issues/2176)
	shouldHideHelp := testing.Testing() && os.Getenv("TEST_SHOW_HELP") != "true"

	logHandler := cmdlogger.New(stdout, stderr)
	defer useLogger(logHandler)()

	cli.VersionPrinter = func(cmd *cli.Command) {
		cmdlogger.Infof("sbomscope version: %s", cmd.Version)
		cmdlogger.Infof("commit: %s", commit)
		cmdlogger.Infof("built at: %s", date)
	}

	cmds := make([]*cli.Command, 0, len(commands))
	for _, build := range commands {
		c := build(stdout, stderr)
		c.HideHelp = shouldHideHelp

		cmds = append(cmds, c)
	}

	app := &cli.Command{
		Name:           "sbomscope",
		Version:        version.SbomscopeVersion,
		Usage:          "normalizes CycloneDX and SPDX documents into one package graph and checks it against the OSV database",
		Suggest:        true,
		HideHelp:       shouldHideHelp,
		Writer:         stdout,
		ErrWriter:      stderr,
		DefaultCommand: DefaultCommand,
		Commands:       cmds,

		CustomRootCommandHelpTemplate: getCustomHelpTemplate(),

		// errors are handled by exitCode rather than cli.HandleExitCoder, which
		// exits early for any error that happens to have an ExitCode method
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	args = insertDefaultCommand(args, app.Commands, app.DefaultCommand, stderr)

	return exitCode(app.Run(context.Background(), args), logHandler)
}
