// Package generate turns loaded environments into the coverage and test
// results files a CI server picks up from xml_data/.
package generate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkoosis/covreport/internal/charset"
	"github.com/dkoosis/covreport/internal/diag"
	"github.com/dkoosis/covreport/pkg/cbt"
	"github.com/dkoosis/covreport/pkg/coverage"
	"github.com/dkoosis/covreport/pkg/emma"
	"github.com/dkoosis/covreport/pkg/junit"
	"github.com/dkoosis/covreport/pkg/provider"
)

var (
	// ErrEmptyCoverageType means the environment never recorded which
	// coverage kinds it instruments, typically because it failed to build.
	ErrEmptyCoverageType = errors.New("coverage type unavailable")
	// ErrUnknownEnvironment means the environment kind could not be
	// determined or its snapshot could not be read.
	ErrUnknownEnvironment = errors.New("could not determine environment type")
)

// DataDir is the directory, under the output directory, reports go to.
const DataDir = "xml_data"

// Options configure a Generator.
type Options struct {
	OutputDir        string
	Charset          charset.Charset
	CBT              cbt.Dictionary
	SkipCBT          bool
	FailedOnly       bool
	ExecutionReports bool
	Now              func() time.Time
	Log              *diag.Logger
}

// Generator writes reports for environments and projects.
type Generator struct {
	opts Options
}

// New returns a generator, filling unset options with defaults.
func New(opts Options) *Generator {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Charset.Encoding == nil {
		opts.Charset = charset.UTF8
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = diag.Nop()
	}
	return &Generator{opts: opts}
}

// Tally counts test records by outcome.
type Tally struct {
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	// FailedNames lists failing test records by name.
	FailedNames []string
}

// Total is the number of test records counted.
func (t Tally) Total() int { return t.Passed + t.Failed + t.Skipped }

func (t *Tally) add(rec junit.TestCase, isError bool) {
	switch rec.Outcome {
	case junit.Pass:
		t.Passed++
	case junit.Skip:
		t.Skipped++
	case junit.Fail:
		t.Failed++
		t.FailedNames = append(t.FailedNames, rec.Name)
		if isError {
			t.Errors++
		}
	}
}

// EnvResult describes what was written for one environment.
type EnvResult struct {
	Name     string
	Key      string
	Coverage *coverage.Result
	Tests    Tally
	Files    []string
	Err      error
}

// ProjectResult describes what was written for a project.
type ProjectResult struct {
	Name         string
	Coverage     *coverage.Result
	Imported     Tally
	Environments []EnvResult
	Files        []string
}

// Abandoned counts the environments that produced no reports.
func (p ProjectResult) Abandoned() int {
	n := 0
	for _, e := range p.Environments {
		if e.Err != nil {
			n++
		}
	}
	return n
}

func (g *Generator) path(prefix, name string) string {
	return filepath.Join(g.opts.OutputDir, DataDir, prefix+name+".xml")
}

func (g *Generator) write(path string, w io.WriterTo) error {
	return g.opts.Charset.WriteFile(path, func(out io.Writer) error {
		_, err := w.WriteTo(out)
		return err
	})
}

func envLogger(l *diag.Logger, env *provider.Environment) *diag.Logger {
	return l.Env(diag.EnvContext{
		Environment: env.Name,
		Compiler:    env.Compiler,
		TestSuite:   env.TestSuite,
		BuildDir:    env.BuildDir,
	})
}

// Environment writes the coverage and test results documents for one
// environment, named after it.
func (g *Generator) Environment(env *provider.Environment) EnvResult {
	res := EnvResult{Name: env.Name, Key: env.Key()}
	log := envLogger(g.opts.Log, env)

	if env.Kind != provider.KindUnit && env.Kind != provider.KindCover {
		res.Err = fmt.Errorf("%s: %w", env.Name, ErrUnknownEnvironment)
		log.Abandoned(res.Err)
		return res
	}

	cov, err := g.coverage(env, log)
	switch {
	case err == nil:
		path := g.path("coverage_results_", env.Name)
		if err := g.write(path, emma.New(env.Name, *cov, g.opts.Now())); err != nil {
			res.Err = err
			log.Abandoned(err)
			return res
		}
		res.Coverage = cov
		res.Files = append(res.Files, path)
		log.Info().Str("file", path).Msg("coverage report written")
	case errors.Is(err, ErrEmptyCoverageType) && env.Kind == provider.KindUnit:
		log.Debug().Err(err).Msg("no coverage report")
	default:
		res.Err = err
		log.Abandoned(err)
		return res
	}

	if env.Kind == provider.KindCover && len(env.SystemTests) == 0 {
		return res
	}
	path := g.path("test_results_", env.Name)
	tally, err := g.testResults(env, path, log)
	if err != nil {
		res.Err = err
		log.Abandoned(err)
		return res
	}
	res.Tests = tally
	res.Files = append(res.Files, path)
	log.Info().Str("file", path).Int("tests", tally.Total()).Int("failed", tally.Failed).Msg("test results written")
	return res
}

func (g *Generator) coverage(env *provider.Environment, log *diag.Logger) (*coverage.Result, error) {
	if env.CoverageType == "" && !anyUnitTyped(env) {
		return nil, fmt.Errorf("%s: %w", env.Name, ErrEmptyCoverageType)
	}
	for _, u := range env.Units {
		log.Debug().Str("unit", u.Name).Str("coverage_type", strings.Join(u.TypeTags, ",")).Msg("coverage type")
	}
	r := coverage.Aggregate(env.CoverageUnits(), env.Options.Coverage)
	return &r, nil
}

func anyUnitTyped(env *provider.Environment) bool {
	for _, u := range env.Units {
		if len(u.TypeTags) > 0 {
			return true
		}
	}
	return false
}

// Project writes one test results document per environment with local
// results, a project-wide coverage document, and a project test results
// document for imported results. Stale reports in the data directory are
// removed first.
func (g *Generator) Project(p *provider.Project) ProjectResult {
	res := ProjectResult{Name: p.Name}
	log := g.opts.Log
	g.cleanDataDir()

	for _, f := range p.Failures {
		err := fmt.Errorf("%s: %w: %w", f.Path, ErrUnknownEnvironment, f.Err)
		log.Abandoned(err)
		res.Environments = append(res.Environments, EnvResult{Name: f.Path, Err: err})
	}

	for _, env := range p.Environments {
		er := EnvResult{Name: env.Name, Key: env.Key()}
		if env.HasLocalResults() {
			path := g.path("test_results_", strings.ReplaceAll(env.Key(), "/", "_"))
			elog := envLogger(log, env)
			tally, err := g.testResults(env, path, elog)
			if err != nil {
				er.Err = err
				elog.Abandoned(err)
			} else {
				er.Tests = tally
				er.Files = append(er.Files, path)
			}
		}
		res.Environments = append(res.Environments, er)
	}

	cov := coverage.Aggregate(p.CoverageUnits(), p.Options.Coverage)
	covPath := g.path("coverage_results_", p.Name)
	if err := g.write(covPath, emma.New(p.Name, cov, g.opts.Now())); err != nil {
		log.Error().Err(err).Msg("project coverage report")
	} else {
		res.Coverage = &cov
		res.Files = append(res.Files, covPath)
	}

	doc, tally := g.importedResults(p)
	if doc != nil {
		path := g.path("test_results_", p.Name)
		if err := g.write(path, doc); err != nil {
			log.Error().Err(err).Msg("imported results report")
		} else {
			res.Imported = tally
			res.Files = append(res.Files, path)
		}
	}
	return res
}

func (g *Generator) cleanDataDir() {
	dir := filepath.Join(g.opts.OutputDir, DataDir)
	matches, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			g.opts.Log.Warn().Err(err).Str("file", m).Msg("could not remove stale report")
		}
	}
}
