package provider

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/covreport/pkg/coverage"
)

func TestLoad_UnitEnvironmentYAML(t *testing.T) {
	env, err := Load(filepath.Join("testdata", "env_unit.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "ENV1", env.Name)
	assert.Equal(t, KindUnit, env.Kind)
	assert.Equal(t, "GNU_Native_9.1/TS.1/ENV1", env.Key())
	require.Len(t, env.Units, 2)

	u := env.Units[0]
	assert.True(t, u.IsUUT)
	assert.Equal(t, coverage.ParseType("STATEMENT_BRANCH"), u.Types)
	assert.Equal(t, coverage.Counter{Covered: 8, Total: 10}, u.Metrics.Statements)

	f := u.Functions[0]
	assert.True(t, f.HasCoverageData)
	assert.Equal(t, 7, f.Order)
	assert.Equal(t, 2, f.Complexity)
	require.Len(t, f.TestCases, 2)
	assert.Equal(t, "u1/f/T1", f.TestCases[0].QualifiedName())
	assert.True(t, f.TestCases[1].Failed())

	require.Len(t, env.TestCases, 1)
	assert.Equal(t, "<<COMPOUND>>/<<COMPOUND>>/C1", env.TestCases[0].QualifiedName())
	assert.False(t, env.Units[1].IsUUT)
}

func TestDecode_AlternateShapeJSON(t *testing.T) {
	data := `{
	  "environment": {"name": "COV", "kind": "cover", "coverage_type": "STATEMENT"},
	  "units": [
	    {"name": "b.c", "coverage_types": ["STATEMENT"], "unit_index": 2,
	     "cover_metrics": {"statements": 4, "max_covered_statements": 2},
	     "functions": [{"name": "g", "display_name": "g()", "instrumented_functions": [{"has_coverage_data": true, "index": 1}],
	                    "cover_data": {"index": 1, "metrics": {"statements": 4, "max_covered_statements": 2, "complexity": 3}}}]},
	    {"name": "a.c", "coverage_types": ["STATEMENT"], "unit_index": 1,
	     "cover_metrics": {"statements": 2, "max_covered_statements": 2},
	     "functions": [{"name": "h", "instrumented_functions": [{"has_coverage_data": false, "index": 0}]}]}
	  ]
	}`
	env, err := Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, KindCover, env.Kind)
	require.Len(t, env.Units, 2)
	assert.Equal(t, "a.c", env.Units[0].Name, "cover units sort by type then unit index")

	g := env.Units[1].Functions[0]
	assert.True(t, g.HasCoverageData)
	assert.Equal(t, 3, g.Complexity)
	assert.Equal(t, coverage.Counter{Covered: 2, Total: 4}, g.Metrics.Statements)

	cu := env.CoverageUnits()
	assert.Equal(t, "g()", cu[1].Functions[0].Name, "cover environments use display names")
}

func TestDecode_MalformedShape(t *testing.T) {
	data := `{
	  "environment": {"name": "E"},
	  "units": [
	    {"name": "u1", "coverage_type": "STATEMENT", "metrics": {"statements": 1},
	     "functions": [{"name": "f", "has_coverage_data": true, "instrumented_functions": [{"index": 0}]}]},
	    {"name": "u2", "coverage_type": "STATEMENT", "metrics": {"statements": 1},
	     "functions": [{"name": "g", "instrumented_functions": [{"has_coverage_data": true, "index": 0}]}]}
	  ]
	}`
	_, err := Decode([]byte(data))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedShape))
	assert.Contains(t, err.Error(), "unit u2")
}

func TestDecode_RejectsUnknownKindAndMissingName(t *testing.T) {
	_, err := Decode([]byte(`{"environment": {"name": "E", "kind": "bogus"}}`))
	assert.True(t, errors.Is(err, ErrMalformedShape))

	_, err = Decode([]byte(`{"environment": {}}`))
	assert.True(t, errors.Is(err, ErrMalformedShape))

	_, err = Decode([]byte(`not a snapshot`))
	assert.Error(t, err)
}

func TestExecutionReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "reports"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reports", "t2.txt"), []byte("expected 1 got 2"), 0o600))

	env := &Environment{Source: filepath.Join(dir, "env.yaml")}

	got, err := env.ExecutionReport(&TestCase{Name: "inline", Report: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	got, err = env.ExecutionReport(&TestCase{Name: "file", ReportFile: "reports/t2.txt"})
	require.NoError(t, err)
	assert.Equal(t, "expected 1 got 2", got)

	_, err = env.ExecutionReport(&TestCase{Name: "none"})
	assert.True(t, errors.Is(err, ErrNoExecutionReport))

	_, err = env.ExecutionReport(&TestCase{Name: "missing", ReportFile: "reports/nope.txt"})
	assert.Error(t, err)
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	envData, err := os.ReadFile(filepath.Join("testdata", "env_unit.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "env1.yaml"), envData, 0o600))

	project := `project: Demo
options:
  simplified_condition_coverage: true
environments:
  - path: env1.yaml
  - snapshot:
      environment: {name: ENV2, compiler: C, testsuite: T}
      imported_results:
        - {name: nightly, total: 3, success: 2}
  - path: missing.yaml
  - {}
`
	path := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(project), 0o600))

	p, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, "Demo", p.Name)
	assert.True(t, p.Options.Coverage.SimplifiedMCDC)
	require.Len(t, p.Environments, 2)
	assert.Equal(t, "ENV2", p.Environments[1].Name)
	assert.False(t, p.Environments[1].HasLocalResults())
	assert.Equal(t, []ImportedResult{{Name: "nightly", Total: 3, Success: 2}}, p.Environments[1].Imported)
	require.Len(t, p.Failures, 2)
	assert.True(t, errors.Is(p.Failures[1].Err, ErrMalformedShape))
	assert.Len(t, p.CoverageUnits(), 2)
}

func TestTestCaseEligibility(t *testing.T) {
	tests := []struct {
		name string
		tc   TestCase
		want bool
	}{
		{"plain", TestCase{}, true},
		{"csv map", TestCase{CSVMap: true}, false},
		{"vct map", TestCase{VCTMap: true}, false},
		{"compound only", TestCase{ForCompoundOnly: true}, false},
		{"compound only strict import", TestCase{ForCompoundOnly: true, Status: StatusStrictImportFail}, true},
	}
	for _, tt := range tests {
		if got := tt.tc.Eligible(); got != tt.want {
			t.Errorf("%s: Eligible() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStatusMessages(t *testing.T) {
	assert.Equal(t, "Testcase failed", ExecSuccessFail.Message())
	assert.Equal(t, "Testcase failed to run to completion (possible testcase timeout)", ExecStatus("EXEC_EXECUTION_FAILED").Message())
	assert.Equal(t, "Invalid Test Case", ExecStatus("INVALID_TEST_CASE").Message())
	assert.Equal(t, "EXEC_NEW_THING", ExecStatus("EXEC_NEW_THING").Message())
	assert.Equal(t, "Recursive Compound Test", StatusRecursiveCompound.Message())
}

func TestSystemTestOK(t *testing.T) {
	assert.True(t, (&SystemTest{RunNeeded: true, Passed: 0, Total: 4}).OK())
	assert.True(t, (&SystemTest{Passed: 4, Total: 4}).OK())
	assert.False(t, (&SystemTest{Passed: 3, Total: 4}).OK())
}
