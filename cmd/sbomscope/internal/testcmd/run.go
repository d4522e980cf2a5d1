// Package testcmd runs sbomscope commands in tests and snapshots what they print.
package testcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sbomscope/sbomscope/cmd/sbomscope/internal/cmd"
	"github.com/sbomscope/sbomscope/internal/testutility"
	"github.com/urfave/cli/v3"
)

// withDefaultCommand returns the commands that should be tested, ensuring that
// the default command is included to avoid a panic
func withDefaultCommand(commands []cmd.CommandBuilder) []cmd.CommandBuilder {
	for _, builder := range commands {
		if builder(nil, nil).Name == cmd.DefaultCommand {
			return commands
		}
	}

	return append(commands, func(_, _ io.Writer) *cli.Command {
		return &cli.Command{
			Name: cmd.DefaultCommand,
			Action: func(_ context.Context, _ *cli.Command) error {
				return errors.New("<this test is unexpectedly calling the default list command>")
			},
		}
	})
}

// Run runs the given case against the given commands, returning what was
// written to stdout and stderr.
func Run(t *testing.T, tc Case, commands ...cmd.CommandBuilder) (string, string) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	ec := cmd.Run(tc.Args, stdout, stderr, withDefaultCommand(commands))

	if ec != tc.Exit {
		t.Errorf("cli exited with code %d, not %d", ec, tc.Exit)
	}

	return stdout.String(), stderr.String()
}

// RunAndMatchSnapshots runs the given case and matches both stdout and stderr
// against snapshots
func RunAndMatchSnapshots(t *testing.T, tc Case, commands ...cmd.CommandBuilder) {
	t.Helper()

	stdout, stderr := Run(t, tc, commands...)

	if tc.isOutputtingJSON() {
		stdout = normalizeJSON(t, stdout, tc.ReplaceRules...)
	}

	testutility.NewSnapshot().MatchText(t, stdout)
	testutility.NewSnapshot().WithWindowsReplacements(map[string]string{
		"CreateFile": "open",
	}).MatchText(t, stderr)
}

// normalizeJSON runs the given JSONReplaceRules on the given JSON input and returns the normalized JSON string
func normalizeJSON(t *testing.T, jsonInput string, jsonReplaceRules ...testutility.JSONReplaceRule) string {
	t.Helper()

	for _, rule := range jsonReplaceRules {
		jsonInput = testutility.ReplaceJSONInput(t, jsonInput, rule.Path, rule.ReplaceFunc)
	}

	jsonFormatted := bytes.Buffer{}
	err := json.Indent(&jsonFormatted, []byte(jsonInput), "", "  ")

	if err != nil {
		t.Fatalf("Failed to marshal JSON: %s", err)
	}

	return jsonFormatted.String()
}
