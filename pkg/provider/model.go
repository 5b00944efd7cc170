// Package provider loads environment snapshots into the normalized model
// the report generators consume. Snapshots come in several attribute
// shapes depending on the tool version that exported them; the loader
// picks one shape per snapshot and normalizes every entity through it.
package provider

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkoosis/covreport/pkg/coverage"
)

// ErrNoExecutionReport means a test case carries no execution report.
var ErrNoExecutionReport = errors.New("no execution report")

// EnvKind distinguishes unit test environments from cover environments.
type EnvKind string

const (
	KindUnit  EnvKind = "unit"
	KindCover EnvKind = "cover"
)

// Options are the environment options that affect report content.
type Options struct {
	Coverage coverage.Options
	// OldStyleManagementReport folds control-flow, signal and exception
	// counts into the expected-value totals.
	OldStyleManagementReport bool
}

// Environment is one built test or cover environment.
type Environment struct {
	Name      string
	Compiler  string
	TestSuite string
	Group     string
	BuildDir  string
	Kind      EnvKind
	Monitored bool
	// CoverageType is the environment-level coverage tag; empty means the
	// environment was never built far enough to know.
	CoverageType string
	Options      Options
	ToolVersion  string

	Units       []Unit
	TestCases   []TestCase
	SystemTests []SystemTest
	Imported    []ImportedResult

	// Source is the snapshot path; execution report files resolve
	// relative to its directory.
	Source string
}

// Key is the environment's project path, "compiler/testsuite[/group]/name".
func (e *Environment) Key() string {
	parts := []string{e.Compiler, e.TestSuite}
	if e.Group != "" {
		parts = append(parts, e.Group)
	}
	return strings.Join(append(parts, e.Name), "/")
}

// HasLocalResults reports whether the environment has executed test data
// of its own, as opposed to only imported result counts.
func (e *Environment) HasLocalResults() bool {
	if len(e.TestCases) > 0 || len(e.SystemTests) > 0 {
		return true
	}
	for _, u := range e.Units {
		for _, f := range u.Functions {
			if len(f.TestCases) > 0 {
				return true
			}
		}
	}
	return false
}

// CoverageUnits converts the environment's units for aggregation. Cover
// environments name subprograms by display name.
func (e *Environment) CoverageUnits() []coverage.Unit {
	out := make([]coverage.Unit, 0, len(e.Units))
	for _, u := range e.Units {
		cu := coverage.Unit{Name: u.Name, Types: u.Types, Metrics: u.Metrics}
		for _, f := range u.Functions {
			name := f.Name
			if e.Kind == KindCover && f.DisplayName != "" {
				name = f.DisplayName
			}
			cu.Functions = append(cu.Functions, coverage.Subprogram{
				Name:            name,
				Order:           f.Order,
				HasCoverageData: f.HasCoverageData,
				CoveredObjects:  f.HasCoveredObjects,
				Metrics:         f.Metrics,
				Complexity:      f.Complexity,
			})
		}
		out = append(out, cu)
	}
	return out
}

// ExecutionReport returns the execution report text for tc, reading it
// from disk when the snapshot references a file.
func (e *Environment) ExecutionReport(tc *TestCase) (string, error) {
	if tc.Report != "" {
		return tc.Report, nil
	}
	if tc.ReportFile == "" {
		return "", fmt.Errorf("%s: %w", tc.Name, ErrNoExecutionReport)
	}
	path := tc.ReportFile
	if !filepath.IsAbs(path) && e.Source != "" {
		path = filepath.Join(filepath.Dir(e.Source), path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read execution report for %s: %w", tc.Name, err)
	}
	return string(data), nil
}

// Unit is one source unit.
type Unit struct {
	Name      string
	IsUUT     bool
	TypeTags  []string
	Types     coverage.Set
	Metrics   coverage.Metrics
	Functions []Function
}

// Function is one subprogram within a unit.
type Function struct {
	Name              string
	DisplayName       string
	Order             int
	HasCoverageData   bool
	HasCoveredObjects bool
	NonTestableStub   bool
	Metrics           coverage.Metrics
	// Complexity is negative when unknown.
	Complexity int
	TestCases  []TestCase
}

// TestKind is the kind of a test case.
type TestKind string

const (
	TestNormal   TestKind = "normal"
	TestCompound TestKind = "compound"
	TestInit     TestKind = "init"
)

// Summary holds the expected-value tallies of a test case's last run.
type Summary struct {
	ExpectedTotal        int `json:"expected_total" yaml:"expected_total"`
	ExpectedFail         int `json:"expected_fail" yaml:"expected_fail"`
	ControlFlowTotal     int `json:"control_flow_total" yaml:"control_flow_total"`
	ControlFlowFail      int `json:"control_flow_fail" yaml:"control_flow_fail"`
	Signals              int `json:"signals" yaml:"signals"`
	UnexpectedExceptions int `json:"unexpected_exceptions" yaml:"unexpected_exceptions"`
}

// TestCase is one unit, compound or init test case.
type TestCase struct {
	Name string
	Kind TestKind
	// Unit and Function locate the test case; compound and init test
	// cases use the <<COMPOUND>> and <<INIT>> placeholders.
	Unit     string
	Function string
	// Passed is nil when the test case has no result.
	Passed          *bool
	ForCompoundOnly bool
	CSVMap          bool
	VCTMap          bool
	Status          Status
	Execution       ExecStatus
	// RunStatus is TC_EXECUTION_NONE when the test case never ran.
	RunStatus  string
	Summary    Summary
	Report     string
	ReportFile string
}

// Executed reports whether the test case ran at all.
func (tc *TestCase) Executed() bool { return tc.RunStatus != "TC_EXECUTION_NONE" }

// Failed reports whether the test case has a failing result.
func (tc *TestCase) Failed() bool { return tc.Passed != nil && !*tc.Passed }

// Eligible reports whether the test case gets a record in the test
// results document.
func (tc *TestCase) Eligible() bool {
	if tc.CSVMap || tc.VCTMap {
		return false
	}
	return !tc.ForCompoundOnly || tc.Status == StatusStrictImportFail
}

// QualifiedName is the "unit/function/name" identity used for change-based
// testing lookups.
func (tc *TestCase) QualifiedName() string {
	return tc.Unit + "/" + tc.Function + "/" + tc.Name
}

// SystemTest is a system test attached to a cover environment.
type SystemTest struct {
	Name        string
	BuildStatus string
	RunNeeded   bool
	Manual      bool
	Passed      int
	Total       int
}

// OK reports whether the system test counts as passing. Tests that still
// need a run are not held against the build.
func (st *SystemTest) OK() bool { return st.RunNeeded || st.Passed == st.Total }

// ImportedResult is a set of result counts imported from another
// workspace with no per-test detail.
type ImportedResult struct {
	Name    string `json:"name" yaml:"name"`
	Total   int    `json:"total" yaml:"total"`
	Success int    `json:"success" yaml:"success"`
}

// Project is a set of environments reported together.
type Project struct {
	Name         string
	Options      Options
	Environments []*Environment
	// Failures lists environments that could not be loaded.
	Failures []LoadFailure
	Source   string
}

// LoadFailure records one environment of a project that failed to load.
type LoadFailure struct {
	Path string
	Err  error
}

// CoverageUnits concatenates the coverage units of every environment.
func (p *Project) CoverageUnits() []coverage.Unit {
	var out []coverage.Unit
	for _, e := range p.Environments {
		out = append(out, e.CoverageUnits()...)
	}
	return out
}
