// Package helper provides helper functions for the sbomscope CLI.
package helper

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrVulnerabilitiesFound is returned by commands asked to fail when any of
// the packages they looked at are vulnerable.
var ErrVulnerabilitiesFound = errors.New("vulnerabilities found")

// TerminalWidth returns the width of the terminal w is writing to, or 0 if it
// is not a terminal.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}

	return width
}

// PrintResult calls print with where the result should be written to, which
// is the file at outputPath if one is given and stdout otherwise.
//
// The terminal width passed along is 0 unless stdout is a terminal.
func PrintResult(stdout io.Writer, outputPath string, print func(w io.Writer, termWidth int) error) error {
	if outputPath == "" {
		return print(stdout, TerminalWidth(stdout))
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	err = print(f, 0)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	return err
}
