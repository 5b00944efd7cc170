package provider

import "github.com/dkoosis/covreport/pkg/coverage"

// Raw snapshot records as exported. Pointer fields distinguish an absent
// attribute from a zero value so the shape probe can tell versions apart.

type rawSnapshot struct {
	ToolVersion string           `json:"tool_version" yaml:"tool_version"`
	Environment rawEnvironment   `json:"environment" yaml:"environment"`
	Units       []rawUnit        `json:"units" yaml:"units"`
	TestCases   []rawTestCase    `json:"testcases" yaml:"testcases"`
	SystemTests []rawSystemTest  `json:"system_tests" yaml:"system_tests"`
	Imported    []ImportedResult `json:"imported_results" yaml:"imported_results"`
}

type rawEnvironment struct {
	Name         string     `json:"name" yaml:"name"`
	Compiler     string     `json:"compiler" yaml:"compiler"`
	TestSuite    string     `json:"testsuite" yaml:"testsuite"`
	Group        string     `json:"group" yaml:"group"`
	BuildDir     string     `json:"build_dir" yaml:"build_dir"`
	Kind         string     `json:"kind" yaml:"kind"`
	Monitored    bool       `json:"monitored" yaml:"monitored"`
	CoverageType string     `json:"coverage_type" yaml:"coverage_type"`
	Options      rawOptions `json:"options" yaml:"options"`
}

type rawOptions struct {
	SimplifiedConditionCoverage bool `json:"simplified_condition_coverage" yaml:"simplified_condition_coverage"`
	DisplayFunctionCoverage     bool `json:"display_function_coverage" yaml:"display_function_coverage"`
	OldStyleManagementReport    bool `json:"old_style_management_report" yaml:"old_style_management_report"`
}

func (o rawOptions) normalize() Options {
	return Options{
		Coverage: coverage.Options{
			SimplifiedMCDC:          o.SimplifiedConditionCoverage,
			DisplayFunctionCoverage: o.DisplayFunctionCoverage,
		},
		OldStyleManagementReport: o.OldStyleManagementReport,
	}
}

type rawCounters struct {
	Statements           int  `json:"statements" yaml:"statements"`
	CoveredStatements    int  `json:"max_covered_statements" yaml:"max_covered_statements"`
	Branches             int  `json:"branches" yaml:"branches"`
	CoveredBranches      int  `json:"max_covered_branches" yaml:"max_covered_branches"`
	MCDCBranches         int  `json:"mcdc_branches" yaml:"mcdc_branches"`
	CoveredMCDCBranches  int  `json:"max_covered_mcdc_branches" yaml:"max_covered_mcdc_branches"`
	MCDCPairs            int  `json:"mcdc_pairs" yaml:"mcdc_pairs"`
	CoveredMCDCPairs     int  `json:"max_covered_mcdc_pairs" yaml:"max_covered_mcdc_pairs"`
	FunctionCalls        int  `json:"function_calls" yaml:"function_calls"`
	CoveredFunctionCalls int  `json:"max_covered_function_calls" yaml:"max_covered_function_calls"`
	Functions            int  `json:"functions" yaml:"functions"`
	CoveredFunctions     int  `json:"max_covered_functions" yaml:"max_covered_functions"`
	Complexity           *int `json:"complexity" yaml:"complexity"`
}

type rawUnit struct {
	Name          string        `json:"name" yaml:"name"`
	IsUUT         *bool         `json:"is_uut" yaml:"is_uut"`
	CoverageType  *string       `json:"coverage_type" yaml:"coverage_type"`
	CoverageTypes []string      `json:"coverage_types" yaml:"coverage_types"`
	UnitIndex     int           `json:"unit_index" yaml:"unit_index"`
	Metrics       *rawCounters  `json:"metrics" yaml:"metrics"`
	CoverMetrics  *rawCounters  `json:"cover_metrics" yaml:"cover_metrics"`
	BasisPaths    []int         `json:"basis_paths_coverage" yaml:"basis_paths_coverage"`
	Functions     []rawFunction `json:"functions" yaml:"functions"`
}

type rawCoverData struct {
	ID      *int         `json:"id" yaml:"id"`
	Index   *int         `json:"index" yaml:"index"`
	Metrics *rawCounters `json:"metrics" yaml:"metrics"`
}

type rawInstrumented struct {
	HasCoverageData bool `json:"has_coverage_data" yaml:"has_coverage_data"`
	Index           int  `json:"index" yaml:"index"`
}

type rawFunction struct {
	Name              string            `json:"name" yaml:"name"`
	DisplayName       string            `json:"display_name" yaml:"display_name"`
	HasCoverageData   *bool             `json:"has_coverage_data" yaml:"has_coverage_data"`
	Instrumented      []rawInstrumented `json:"instrumented_functions" yaml:"instrumented_functions"`
	CoverData         *rawCoverData     `json:"cover_data" yaml:"cover_data"`
	Metrics           *rawCounters      `json:"metrics" yaml:"metrics"`
	Complexity        *int              `json:"complexity" yaml:"complexity"`
	HasCoveredObjects bool              `json:"has_covered_objects" yaml:"has_covered_objects"`
	NonTestableStub   bool              `json:"is_non_testable_stub" yaml:"is_non_testable_stub"`
	BasisPaths        []int             `json:"basis_paths_coverage" yaml:"basis_paths_coverage"`
	TestCases         []rawTestCase     `json:"testcases" yaml:"testcases"`
}

type rawTestCase struct {
	Name            string  `json:"name" yaml:"name"`
	Kind            string  `json:"kind" yaml:"kind"`
	Passed          *bool   `json:"passed" yaml:"passed"`
	ForCompoundOnly bool    `json:"for_compound_only" yaml:"for_compound_only"`
	CSVMap          bool    `json:"is_csv_map" yaml:"is_csv_map"`
	VCTMap          bool    `json:"is_vct_map" yaml:"is_vct_map"`
	Status          string  `json:"testcase_status" yaml:"testcase_status"`
	Execution       string  `json:"execution_status" yaml:"execution_status"`
	RunStatus       string  `json:"status" yaml:"status"`
	Summary         Summary `json:"summary" yaml:"summary"`
	Report          string  `json:"execution_report" yaml:"execution_report"`
	ReportFile      string  `json:"execution_report_file" yaml:"execution_report_file"`
}

type rawSystemTest struct {
	Name        string `json:"name" yaml:"name"`
	BuildStatus string `json:"build_status" yaml:"build_status"`
	RunNeeded   bool   `json:"run_needed" yaml:"run_needed"`
	Type        string `json:"type" yaml:"type"`
	Passed      int    `json:"passed" yaml:"passed"`
	Total       int    `json:"total" yaml:"total"`
}

type rawProject struct {
	Project      string          `json:"project" yaml:"project"`
	Options      rawOptions      `json:"options" yaml:"options"`
	Environments []rawProjectEnv `json:"environments" yaml:"environments"`
}

type rawProjectEnv struct {
	Path     string       `json:"path" yaml:"path"`
	Snapshot *rawSnapshot `json:"snapshot" yaml:"snapshot"`
}
