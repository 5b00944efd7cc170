// covreport converts exported test environment snapshots into the XML
// reports CI servers ingest: JUnit test results and Emma coverage.
//
// Usage:
//
//	covreport env build/*.yaml --cbt cbt.json
//	covreport project workspace.yaml --language japanese
//	covreport version
//
// Reports are written to <output-dir>/xml_data/. A run summary follows on
// stdout in one of these formats (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text for AI consumption (default when piped)
//	json      structured JSON for automation
//	none      no summary
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dkoosis/covreport/internal/generate"
	"github.com/dkoosis/covreport/pkg/mapper"
	"github.com/dkoosis/covreport/pkg/render"
)

// errUsage marks errors that should exit 2.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit code: 0 when every
// environment was written, 1 when any was abandoned, 2 for usage and
// configuration errors.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "covreport: %v\n", err)
		if errors.Is(err, errUsage) || a.code == 0 {
			return 2
		}
	}
	return a.code
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

func summarize(results []generate.EnvResult) []mapper.Environment {
	out := make([]mapper.Environment, 0, len(results))
	for _, r := range results {
		out = append(out, mapper.Environment{
			Name:        r.Name,
			Coverage:    r.Coverage,
			Passed:      r.Tests.Passed,
			Failed:      r.Tests.Failed,
			Skipped:     r.Tests.Skipped,
			FailedTests: r.Tests.FailedNames,
			Err:         r.Err,
		})
	}
	return out
}

func (a *app) renderRun(run mapper.Run) {
	r := render.ForFormat(
		resolveFormat(a.cfg.Format, a.stdout),
		render.ThemeByName(a.cfg.Theme),
		termWidth(a.stdout),
	)
	if r == nil {
		return
	}
	fmt.Fprint(a.stdout, r.Render(mapper.FromRun(run, mapper.DefaultTop)))
}
