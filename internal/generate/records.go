package generate

import (
	"fmt"
	"strings"

	"github.com/dkoosis/covreport/internal/diag"
	"github.com/dkoosis/covreport/pkg/cbt"
	"github.com/dkoosis/covreport/pkg/junit"
	"github.com/dkoosis/covreport/pkg/provider"
)

const (
	cbtNote           = "Testcase may have been skipped by VectorCAST Change Based Testing.  Last execution data shown.\n\n"
	noResults         = "No execution results found"
	reportsDisabled   = "Execution Report disabled by using --no-exec-reports"
	strictImportNote  = "\nStrict Test Import Failure."
	notExecuted       = "Test Not Executed"
	systemTestHeading = "  System Test Build Status: %s. \n   System Test: %s \n   Execution Status: "
)

// outcome is everything needed to build one test record.
type outcome struct {
	name     string
	passed   *bool
	skipped  bool
	elapsed  string
	expPass  int
	expTotal int
	report   func() string
	failure  string
	isError  bool
}

// failed reports whether the record survives FailedOnly. A test case with
// no result counts as failed and is kept as skipped.
func (o outcome) failed() bool {
	return o.passed == nil || !*o.passed
}

func (o outcome) record(classname string) junit.TestCase {
	rec := junit.TestCase{Name: o.name, ClassName: classname, Time: o.elapsed}
	status := ""
	switch {
	case o.passed == nil:
		rec.Outcome = junit.Skip
	case !*o.passed:
		rec.Outcome = junit.Fail
		rec.Message = o.failure
		status = "FAIL"
		if o.skipped {
			status = cbtNote + status
		}
	case o.skipped:
		rec.Outcome = junit.Skip
	default:
		rec.Outcome = junit.Pass
		status = "PASS"
	}
	if status != "" {
		rec.Output = fmt.Sprintf("%s %d / %d  \n\nExecution Report:\n %s", status, o.expPass, o.expTotal, o.report())
	}
	return rec
}

func classname(env *provider.Environment) string {
	strip := func(s string) string { return strings.ReplaceAll(s, ".", "") }
	return strip(env.Compiler) + "." + strip(env.TestSuite) + "." + strip(env.Name)
}

func (g *Generator) resolver(env *provider.Environment, log *diag.Logger) *cbt.Resolver {
	hash, err := cbt.BuildHash(env.BuildDir, g.opts.Charset.Encoding)
	if err != nil {
		log.Warn().Err(err).Msg("build identity")
	}
	log.Debug().Str("hash", hash).Msg("build identity")
	return cbt.NewResolver(g.opts.CBT, hash, cbt.Disabled(g.opts.SkipCBT))
}

func (g *Generator) resolve(r *cbt.Resolver, q cbt.Query, log *diag.Logger) cbt.Resolution {
	res := r.Resolve(q)
	if res.Skipped {
		ev := log.Debug().Str("hash", r.Hash()).Str("testcase", q.Qualified)
		if res.Reason != nil {
			ev = ev.Err(res.Reason)
		}
		ev.Msg("test case may have been skipped")
	}
	return res
}

// candidates returns the test cases that get a record, in report order:
// compound, then init, then unit test cases of units under test.
func candidates(env *provider.Environment) []*provider.TestCase {
	var out []*provider.TestCase
	for _, kind := range []provider.TestKind{provider.TestCompound, provider.TestInit} {
		for i := range env.TestCases {
			tc := &env.TestCases[i]
			if tc.Kind == kind && tc.Eligible() {
				out = append(out, tc)
			}
		}
	}
	for ui := range env.Units {
		u := &env.Units[ui]
		if !u.IsUUT {
			continue
		}
		for fi := range u.Functions {
			f := &u.Functions[fi]
			if f.NonTestableStub {
				continue
			}
			for ti := range f.TestCases {
				if tc := &f.TestCases[ti]; tc.Eligible() {
					out = append(out, tc)
				}
			}
		}
	}
	return out
}

func queryKind(k provider.TestKind) cbt.Kind {
	switch k {
	case provider.TestCompound:
		return cbt.KindCompound
	case provider.TestInit:
		return cbt.KindInit
	default:
		return cbt.KindSimple
	}
}

func queryStatus(s provider.Status) cbt.Status {
	switch s {
	case provider.StatusStrictImportFail:
		return cbt.StatusStrictImportFailed
	case provider.StatusRecursiveCompound:
		return cbt.StatusRecursiveCompound
	case provider.StatusNoExpectedValues:
		return cbt.StatusNoExpectedValues
	default:
		return cbt.StatusOther
	}
}

func expected(s provider.Summary, oldStyle bool) (pass, total int) {
	total = s.ExpectedTotal
	pass = total - s.ExpectedFail
	if oldStyle {
		pass += s.ControlFlowTotal - s.ControlFlowFail
		total += s.ControlFlowTotal + s.Signals + s.UnexpectedExceptions
	}
	return pass, total
}

func (g *Generator) executionReport(env *provider.Environment, tc *provider.TestCase, log *diag.Logger) string {
	if !g.opts.ExecutionReports {
		return reportsDisabled
	}
	out, err := env.ExecutionReport(tc)
	if err != nil {
		log.Warn().Err(err).Str("testcase", tc.QualifiedName()).Msg("execution report")
		return noResults
	}
	return out
}

func (g *Generator) unitOutcome(env *provider.Environment, tc *provider.TestCase, r *cbt.Resolver, log *diag.Logger) outcome {
	res := g.resolve(r, cbt.Query{
		Name:      tc.Name,
		Qualified: tc.QualifiedName(),
		Kind:      queryKind(tc.Kind),
		Status:    queryStatus(tc.Status),
	}, log)
	pass, total := expected(tc.Summary, env.Options.OldStyleManagementReport)
	failure := notExecuted
	if tc.Executed() {
		failure = tc.Execution.Message()
	}
	return outcome{
		name:     tc.Unit + "." + tc.Function + "." + tc.Name,
		passed:   tc.Passed,
		skipped:  res.Skipped,
		elapsed:  res.Elapsed(),
		expPass:  pass,
		expTotal: total,
		failure:  failure,
		isError:  tc.Execution != provider.ExecSuccessFail,
		report: func() string {
			out := g.executionReport(env, tc, log)
			if tc.Status == provider.StatusStrictImportFail {
				out += strictImportNote
			}
			return out
		},
	}
}

func (g *Generator) systemOutcome(env *provider.Environment, st *provider.SystemTest, r *cbt.Resolver, log *diag.Logger) outcome {
	level := env.Compiler + "/" + env.TestSuite + "/" + env.Name
	res := g.resolve(r, cbt.Query{
		Name:      st.Name,
		Qualified: level + "/" + st.Name + "/" + st.Name,
		Kind:      cbt.KindSystem,
		Monitored: env.Monitored,
	}, log)

	text := fmt.Sprintf(systemTestHeading, st.BuildStatus, st.Name)
	switch {
	case st.RunNeeded && st.Manual:
		text += "Manual system tests can't be run in Jenkins"
	case st.RunNeeded:
		text += "Needs to be executed"
	case st.Passed == st.Total:
		text += "Passed"
	default:
		text += fmt.Sprintf("Failed %d / %d ", st.Passed, st.Total)
	}
	ok := st.OK()
	return outcome{
		name:     level + "." + st.Name + "." + st.Name,
		passed:   &ok,
		skipped:  res.Skipped,
		elapsed:  res.Elapsed(),
		expPass:  st.Passed,
		expTotal: st.Total,
		isError:  true,
		report:   func() string { return text },
	}
}

// testResults writes the test results document for env. Header counts
// cover every candidate record, including those dropped by FailedOnly.
func (g *Generator) testResults(env *provider.Environment, path string, log *diag.Logger) (Tally, error) {
	r := g.resolver(env, log)
	class := classname(env)

	var outcomes []outcome
	if env.Kind == provider.KindCover {
		for i := range env.SystemTests {
			outcomes = append(outcomes, g.systemOutcome(env, &env.SystemTests[i], r, log))
		}
	} else {
		for _, tc := range candidates(env) {
			outcomes = append(outcomes, g.unitOutcome(env, tc, r, log))
		}
	}

	var tally Tally
	doc := &junit.Document{Encoding: g.opts.Charset.Name, Suite: junit.Suite{Name: env.Name}}
	for _, o := range outcomes {
		rec := o.record(class)
		tally.add(rec, o.isError)
		if g.opts.FailedOnly && !o.failed() {
			continue
		}
		doc.Suite.Cases = append(doc.Suite.Cases, rec)
	}
	doc.Suite.Tests = tally.Total()
	doc.Suite.Failures = tally.Failed
	doc.Suite.Errors = tally.Errors

	if err := g.write(path, doc); err != nil {
		return Tally{}, err
	}
	return tally, nil
}

// importedResults builds synthetic records for environments that only
// carry imported result counts. It returns nil when there are none.
func (g *Generator) importedResults(p *provider.Project) (*junit.Document, Tally) {
	doc := &junit.Document{Encoding: g.opts.Charset.Name, Suite: junit.Suite{Name: p.Name}}
	var tally Tally
	for _, env := range p.Environments {
		if env.HasLocalResults() {
			continue
		}
		class := env.Compiler + "." + env.TestSuite + "." + env.Name
		for _, ir := range env.Imported {
			failed := ir.Total - ir.Success
			for i := 1; i <= ir.Success; i++ {
				rec := junit.TestCase{
					Name:      fmt.Sprintf("ImportedResults.%s.TestCase.PASS.%03d", ir.Name, i),
					ClassName: class,
					Time:      "0",
					Outcome:   junit.Skip,
				}
				tally.add(rec, false)
				doc.Suite.Cases = append(doc.Suite.Cases, rec)
			}
			for i := 1; i <= failed; i++ {
				rec := junit.TestCase{
					Name:      fmt.Sprintf("ImportedResults.%s.TestCase.FAIL.%03d", ir.Name, i),
					ClassName: class,
					Time:      "0",
					Outcome:   junit.Fail,
				}
				tally.add(rec, true)
				doc.Suite.Cases = append(doc.Suite.Cases, rec)
			}
		}
	}
	if len(doc.Suite.Cases) == 0 {
		return nil, Tally{}
	}
	doc.Suite.Tests = tally.Total()
	doc.Suite.Failures = tally.Failed
	doc.Suite.Errors = tally.Errors
	return doc, tally
}
