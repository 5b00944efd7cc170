// Package diag is the diagnostics channel: progress and failure notes
// written to stderr, kept apart from report files and the run summary.
package diag

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger wraps a zerolog logger with environment-scoped helpers.
type Logger struct {
	zerolog.Logger
}

// New returns a console logger on w. Verbose enables debug lines.
func New(w io.Writer, verbose bool) *Logger {
	cw := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !isTerminal(w),
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &Logger{Logger: zerolog.New(cw).Level(level)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EnvContext identifies the environment a diagnostic is about.
type EnvContext struct {
	Environment string
	Compiler    string
	TestSuite   string
	BuildDir    string
}

// Env returns a child logger tagging every line with ctx.
func (l *Logger) Env(ctx EnvContext) *Logger {
	return &Logger{Logger: l.With().
		Str("env", ctx.Environment).
		Str("compiler", ctx.Compiler).
		Str("testsuite", ctx.TestSuite).
		Str("build_dir", ctx.BuildDir).
		Logger()}
}

// Abandoned reports an environment whose reports could not be produced.
func (l *Logger) Abandoned(err error) {
	l.Error().Err(err).Msg("environment abandoned")
}
