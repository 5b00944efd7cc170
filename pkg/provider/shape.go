package provider

import (
	"errors"
	"fmt"

	"github.com/dkoosis/covreport/pkg/coverage"
)

// ErrMalformedShape means an entity lacks the attributes of the shape
// probed for its snapshot.
var ErrMalformedShape = errors.New("snapshot entity does not match probed shape")

// shape holds one accessor per version-dependent attribute. It is chosen
// once per snapshot by probeShape.
type shape struct {
	name string

	unitMetrics func(*rawUnit) *rawCounters
	unitTypes   func(*rawUnit) ([]string, bool)
	hasData     func(*rawFunction) (bool, bool)
	order       func(*rawFunction) (int, bool)
	funcMetrics func(*rawFunction) *rawCounters
	complexity  func(*rawFunction) (int, bool)
}

func probeShape(units []rawUnit, cover bool) shape {
	s := shape{
		unitMetrics: func(u *rawUnit) *rawCounters { return u.Metrics },
		unitTypes: func(u *rawUnit) ([]string, bool) {
			if u.CoverageType == nil {
				return nil, false
			}
			return []string{*u.CoverageType}, true
		},
		hasData: func(f *rawFunction) (bool, bool) {
			if f.HasCoverageData == nil {
				return false, false
			}
			return *f.HasCoverageData, true
		},
		funcMetrics: func(f *rawFunction) *rawCounters { return f.Metrics },
		complexity: func(f *rawFunction) (int, bool) {
			if f.Complexity == nil {
				return 0, false
			}
			return *f.Complexity, true
		},
	}
	names := []string{"metrics", "coverage_type", "has_coverage_data", "", "metrics", "complexity"}

	var (
		firstUnit *rawUnit
		firstFunc *rawFunction
	)
	for i := range units {
		if firstUnit == nil && (units[i].Metrics != nil || units[i].CoverMetrics != nil || units[i].CoverageTypes != nil) {
			firstUnit = &units[i]
		}
		for j := range units[i].Functions {
			f := &units[i].Functions[j]
			if firstFunc == nil || (!retained(firstFunc) && retained(f)) {
				firstFunc = f
			}
		}
	}

	if firstUnit != nil {
		if firstUnit.Metrics == nil && firstUnit.CoverMetrics != nil {
			s.unitMetrics = func(u *rawUnit) *rawCounters { return u.CoverMetrics }
			names[0] = "cover_metrics"
		}
		if firstUnit.CoverageTypes != nil {
			s.unitTypes = func(u *rawUnit) ([]string, bool) { return u.CoverageTypes, u.CoverageTypes != nil }
			names[1] = "coverage_types"
		}
	}

	switch {
	case cover:
		s.order = func(f *rawFunction) (int, bool) {
			if f.CoverData == nil || f.CoverData.Index == nil {
				return 0, false
			}
			return *f.CoverData.Index, true
		}
		names[3] = "cover_data.index"
	case firstFunc != nil && firstFunc.CoverData != nil && firstFunc.CoverData.ID != nil:
		s.order = func(f *rawFunction) (int, bool) {
			if f.CoverData == nil || f.CoverData.ID == nil {
				return 0, false
			}
			return *f.CoverData.ID, true
		}
		names[3] = "cover_data.id"
	default:
		s.order = func(f *rawFunction) (int, bool) {
			if len(f.Instrumented) == 0 {
				return 0, false
			}
			return f.Instrumented[0].Index, true
		}
		names[3] = "instrumented_functions.index"
	}

	if firstFunc != nil {
		if firstFunc.HasCoverageData == nil && len(firstFunc.Instrumented) > 0 {
			s.hasData = func(f *rawFunction) (bool, bool) {
				if len(f.Instrumented) == 0 {
					return false, false
				}
				return f.Instrumented[0].HasCoverageData, true
			}
			names[2] = "instrumented_functions.has_coverage_data"
		}
		if firstFunc.CoverData != nil && firstFunc.CoverData.Metrics != nil {
			s.funcMetrics = func(f *rawFunction) *rawCounters {
				if f.CoverData == nil {
					return nil
				}
				return f.CoverData.Metrics
			}
			names[4] = "cover_data.metrics"
		}
		if firstFunc.Complexity == nil {
			s.complexity = func(f *rawFunction) (int, bool) {
				m := s.funcMetrics(f)
				if m == nil || m.Complexity == nil {
					return 0, false
				}
				return *m.Complexity, true
			}
			names[5] = names[4] + ".complexity"
		}
	}

	s.name = fmt.Sprint(names)
	return s
}

// retained reports whether f claims coverage data in either shape. The
// probe prefers such a function since only retained functions are read
// for metrics, ordering and complexity.
func retained(f *rawFunction) bool {
	if f.HasCoverageData != nil {
		return *f.HasCoverageData
	}
	return len(f.Instrumented) > 0 && f.Instrumented[0].HasCoverageData
}

func (r *rawCounters) metrics(basis []int) coverage.Metrics {
	var m coverage.Metrics
	if r != nil {
		m = coverage.Metrics{
			Statements:    coverage.Counter{Covered: r.CoveredStatements, Total: r.Statements},
			Branches:      coverage.Counter{Covered: r.CoveredBranches, Total: r.Branches},
			MCDCBranches:  coverage.Counter{Covered: r.CoveredMCDCBranches, Total: r.MCDCBranches},
			MCDCPairs:     coverage.Counter{Covered: r.CoveredMCDCPairs, Total: r.MCDCPairs},
			FunctionCalls: coverage.Counter{Covered: r.CoveredFunctionCalls, Total: r.FunctionCalls},
			Functions:     coverage.Counter{Covered: r.CoveredFunctions, Total: r.Functions},
		}
		if r.Complexity != nil {
			m.Complexity = *r.Complexity
		}
	}
	if len(basis) == 2 {
		m.BasisPaths = coverage.Counter{Covered: basis[0], Total: basis[1]}
	}
	return m
}

func (s shape) unit(ru *rawUnit, envTypes []string) (Unit, error) {
	u := Unit{Name: ru.Name, IsUUT: ru.IsUUT == nil || *ru.IsUUT}

	tags, ok := s.unitTypes(ru)
	if !ok {
		tags = envTypes
	}
	u.TypeTags = tags
	u.Types = coverage.ParseType(tags...)

	rm := s.unitMetrics(ru)
	if rm == nil && (ru.Metrics != nil || ru.CoverMetrics != nil) {
		return Unit{}, fmt.Errorf("unit %s: metrics: %w (%s)", ru.Name, ErrMalformedShape, s.name)
	}
	u.Metrics = rm.metrics(ru.BasisPaths)

	for i := range ru.Functions {
		f, err := s.function(&ru.Functions[i], u.Name)
		if err != nil {
			return Unit{}, fmt.Errorf("unit %s: %w", ru.Name, err)
		}
		u.Functions = append(u.Functions, f)
	}
	return u, nil
}

func (s shape) function(rf *rawFunction, unit string) (Function, error) {
	f := Function{
		Name:              rf.Name,
		DisplayName:       rf.DisplayName,
		HasCoveredObjects: rf.HasCoveredObjects,
		NonTestableStub:   rf.NonTestableStub,
		Complexity:        -1,
	}
	if f.DisplayName == "" {
		f.DisplayName = f.Name
	}

	hasData, ok := s.hasData(rf)
	if !ok && rf.HasCoverageData == nil && len(rf.Instrumented) == 0 {
		hasData, ok = false, true
	}
	if !ok {
		return Function{}, fmt.Errorf("function %s: coverage data flag: %w (%s)", rf.Name, ErrMalformedShape, s.name)
	}
	f.HasCoverageData = hasData

	if hasData {
		order, ok := s.order(rf)
		if !ok {
			return Function{}, fmt.Errorf("function %s: ordering key: %w (%s)", rf.Name, ErrMalformedShape, s.name)
		}
		f.Order = order
		f.Metrics = s.funcMetrics(rf).metrics(rf.BasisPaths)
		if c, ok := s.complexity(rf); ok {
			f.Complexity = c
		}
	}

	for i := range rf.TestCases {
		f.TestCases = append(f.TestCases, testCase(&rf.TestCases[i], unit, f.DisplayName))
	}
	return f, nil
}

func testCase(rt *rawTestCase, unit, function string) TestCase {
	kind := TestKind(rt.Kind)
	switch kind {
	case TestCompound:
		unit, function = "<<COMPOUND>>", "<<COMPOUND>>"
	case TestInit:
		unit, function = "<<INIT>>", "<<INIT>>"
	case "":
		kind = TestNormal
	}
	return TestCase{
		Name:            rt.Name,
		Kind:            kind,
		Unit:            unit,
		Function:        function,
		Passed:          rt.Passed,
		ForCompoundOnly: rt.ForCompoundOnly,
		CSVMap:          rt.CSVMap,
		VCTMap:          rt.VCTMap,
		Status:          Status(rt.Status),
		Execution:       ExecStatus(rt.Execution),
		RunStatus:       rt.RunStatus,
		Summary:         rt.Summary,
		Report:          rt.Report,
		ReportFile:      rt.ReportFile,
	}
}
