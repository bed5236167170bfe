package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/dhamidi/metagen/java/codebase"
	"github.com/dhamidi/metagen/metagen"
)

var errDiagnostics = errors.New("bean discovery reported errors")

// openCodebase indexes the classpath and scans the source directories.
func openCodebase(s *settings, dirs []string) (*codebase.Codebase, error) {
	c := codebase.New(dirs...)
	if err := c.LoadClasspath(s.cfg.Classpath); err != nil {
		c.Close()
		return nil, err
	}
	if _, err := c.ScanAll(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// printDiagnostics writes diagnostics in file:line:col form and returns
// the number of errors among them.
func printDiagnostics(w io.Writer, diags []metagen.Diagnostic) int {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	count := 0
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%d:%d: ", d.Position.File, d.Position.Line, d.Position.Column)
		if d.Severity == metagen.SeverityError {
			count++
			red.Fprint(w, "error")
		} else {
			yellow.Fprint(w, "warning")
		}
		fmt.Fprintf(w, ": %s\n", d.Message)
	}
	return count
}

// reportErrors prints diagnostics to stderr and fails when any of them is
// an error.
func reportErrors(diags []metagen.Diagnostic) error {
	if printDiagnostics(os.Stderr, diags) > 0 {
		return errDiagnostics
	}
	return nil
}
