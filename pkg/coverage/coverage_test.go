package coverage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		tags []string
		want Set
	}{
		{[]string{"NONE"}, 0},
		{[]string{""}, 0},
		{[]string{"STATEMENT"}, Set(Statement)},
		{[]string{"STATEMENT_BRANCH"}, Set(Statement | Branch)},
		{[]string{"STATEMENT_MCDC"}, Set(Statement | MCDC)},
		{[]string{"BASIS_PATHS_MCDC"}, Set(BasisPath | MCDC)},
		{[]string{"FUNCTION_COVERAGE"}, Set(Function | FunctionCall)},
		{[]string{"FUNCTION_FUNCTION_CALL"}, Set(Function | FunctionCall)},
		{[]string{"STATEMENT_BRANCH_FUNCTION_CALL"}, Set(Statement | Branch | FunctionCall)},
		{[]string{"statement", "branch"}, Set(Statement | Branch)},
	}
	for _, tt := range tests {
		if got := ParseType(tt.tags...); got != tt.want {
			t.Errorf("ParseType(%v) = %s, want %s", tt.tags, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		covered, total int
		want           string
		ok             bool
	}{
		{0, 0, "", false},
		{5, 0, "", false},
		{1, 3, "33% (1 / 3)", true},
		{2, 3, "67% (2 / 3)", true},
		{1, 8, "13% (1 / 8)", true},
		{0, 7, "0% (0 / 7)", true},
		{8, 10, "80% (8 / 10)", true},
		{10, 10, "100% (10 / 10)", true},
	}
	for _, tt := range tests {
		got, ok := Percent(tt.covered, tt.total)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Percent(%d, %d) = %q, %v; want %q, %v", tt.covered, tt.total, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtract_InactiveCategoriesStayNil(t *testing.T) {
	m := Metrics{
		Statements: Counter{8, 10},
		Branches:   Counter{3, 4},
		MCDCPairs:  Counter{1, 2},
	}
	e := Extract(UnitLevel, Subject{Metrics: m}, ParseType("STATEMENT"), Options{})
	want := Entry{Statement: "80% (8 / 10)"}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_MCDC(t *testing.T) {
	m := Metrics{
		MCDCBranches: Counter{2, 4},
		MCDCPairs:    Counter{1, 2},
		Branches:     Counter{3, 4},
	}

	e := Extract(UnitLevel, Subject{Metrics: m}, ParseType("STATEMENT_MCDC"), Options{})
	assert.Equal(t, "50% (2 / 4)", e[Branch])
	assert.Equal(t, "50% (1 / 2)", e[MCDC])

	e = Extract(UnitLevel, Subject{Metrics: m}, ParseType("STATEMENT_MCDC"), Options{SimplifiedMCDC: true})
	_, ok := e.Value(MCDC)
	assert.False(t, ok, "simplified condition coverage suppresses mcdc")
	assert.Equal(t, "50% (2 / 4)", e[Branch])
}

func TestExtract_FunctionLevelFunctionCoverage(t *testing.T) {
	cats := ParseType("FUNCTION_COVERAGE")
	covered := Extract(FunctionLevel, Subject{CoveredObjects: true}, cats, Options{})
	assert.Equal(t, "100% (1 / 1)", covered[Function])

	uncovered := Extract(FunctionLevel, Subject{}, cats, Options{})
	assert.Equal(t, "0% (0 / 1)", uncovered[Function])

	unit := Extract(UnitLevel, Subject{Metrics: Metrics{Functions: Counter{1, 2}}}, cats, Options{})
	assert.Equal(t, "50% (1 / 2)", unit[Function])
}

func TestExtract_DisplayFunctionOption(t *testing.T) {
	e := Extract(FunctionLevel, Subject{}, ParseType("STATEMENT"), Options{DisplayFunctionCoverage: true})
	assert.Equal(t, "0% (0 / 1)", e[Function])
}

func TestAggregate_StatementBranch(t *testing.T) {
	units := []Unit{{
		Name:  "u1",
		Types: ParseType("STATEMENT_BRANCH"),
		Metrics: Metrics{
			Statements: Counter{8, 10},
			Branches:   Counter{3, 4},
		},
		Functions: []Subprogram{{
			Name:            "f",
			HasCoverageData: true,
			Metrics: Metrics{
				Statements: Counter{8, 10},
				Branches:   Counter{3, 4},
			},
			Complexity: 2,
		}},
	}}

	r := Aggregate(units, Options{})
	require.Len(t, r.Units, 1)
	u := r.Units[0]
	assert.Equal(t, "u1", u.DisplayName)
	assert.Equal(t, 2, u.Complexity)
	assert.Equal(t, Entry{Statement: "80% (8 / 10)", Branch: "75% (3 / 4)"}, u.Entry)
	assert.Equal(t, Entry{Statement: "80% (8 / 10)", Branch: "75% (3 / 4)"}, r.Total)
	assert.Equal(t, 1, r.Subprograms)
	assert.Equal(t, 2, r.Totals.Complexity)
}

func TestAggregate_SkipsUnitsWithoutCoverableElements(t *testing.T) {
	units := []Unit{
		{Name: "empty", Types: ParseType("STATEMENT"), Functions: []Subprogram{{Name: "f", HasCoverageData: true}}},
		{Name: "real", Types: ParseType("STATEMENT"), Metrics: Metrics{Statements: Counter{1, 2}},
			Functions: []Subprogram{{Name: "g", HasCoverageData: true, Complexity: -1}}},
	}
	r := Aggregate(units, Options{})
	require.Len(t, r.Units, 1)
	assert.Equal(t, "real", r.Units[0].Name)
	assert.Equal(t, 0, r.Units[0].Complexity, "unknown complexity is not added")
	assert.Equal(t, Counter{1, 2}, r.Totals.Metrics.Statements)
}

func TestAggregate_UnitWithoutRetainedFunctionsStillCountsInTotals(t *testing.T) {
	units := []Unit{
		{Name: "a", Types: ParseType("STATEMENT"), Metrics: Metrics{Statements: Counter{2, 4}},
			Functions: []Subprogram{{Name: "f"}}},
		{Name: "b", Types: ParseType("STATEMENT"), Metrics: Metrics{Statements: Counter{3, 4}},
			Functions: []Subprogram{{Name: "g", HasCoverageData: true}}},
	}
	r := Aggregate(units, Options{})
	require.Len(t, r.Units, 1)
	assert.Equal(t, "b", r.Units[0].Name)
	assert.Equal(t, Counter{5, 8}, r.Totals.Metrics.Statements)
	assert.Equal(t, "63% (5 / 8)", r.Total[Statement])
}

func TestAggregate_FunctionOrder(t *testing.T) {
	u := Unit{
		Name:    "u",
		Types:   ParseType("STATEMENT"),
		Metrics: Metrics{Statements: Counter{1, 1}},
		Functions: []Subprogram{
			{Name: "third", Order: 3, HasCoverageData: true},
			{Name: "first", Order: 1, HasCoverageData: true},
			{Name: "skipped", Order: 0},
			{Name: "second", Order: 2, HasCoverageData: true},
		},
	}
	r := Aggregate([]Unit{u}, Options{})
	var names []string
	for _, f := range r.Units[0].Functions {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"first", "second", "third"}, names)
}

func TestAggregate_DuplicateNames(t *testing.T) {
	mk := func() Unit {
		return Unit{
			Name:      "dup",
			Types:     ParseType("STATEMENT"),
			Metrics:   Metrics{Statements: Counter{1, 1}},
			Functions: []Subprogram{{Name: "f", HasCoverageData: true}},
		}
	}
	r := Aggregate([]Unit{mk(), mk(), mk()}, Options{})
	require.Len(t, r.Units, 3)
	assert.Equal(t, "dup", r.Units[0].DisplayName)
	assert.Equal(t, "dup'1", r.Units[1].DisplayName)
	assert.Equal(t, "dup'2", r.Units[2].DisplayName)
}

func TestAggregate_BasisPathOnlyWhenActive(t *testing.T) {
	units := []Unit{
		{Name: "bp", Types: ParseType("BASIS_PATHS"), Metrics: Metrics{BasisPaths: Counter{1, 2}},
			Functions: []Subprogram{{Name: "f", HasCoverageData: true}}},
		{Name: "st", Types: ParseType("STATEMENT"), Metrics: Metrics{Statements: Counter{1, 1}, BasisPaths: Counter{5, 5}},
			Functions: []Subprogram{{Name: "g", HasCoverageData: true}}},
	}
	r := Aggregate(units, Options{})
	assert.Equal(t, Counter{1, 2}, r.Totals.Metrics.BasisPaths)
	assert.Equal(t, "50% (1 / 2)", r.Total[BasisPath])
	assert.True(t, r.Categories.Has(Statement))
}

func TestAggregate_FlagsAreUnionedAcrossUnits(t *testing.T) {
	units := []Unit{
		{Name: "calls", Types: ParseType("STATEMENT_FUNCTION_CALL"),
			Metrics:   Metrics{Statements: Counter{1, 1}, FunctionCalls: Counter{1, 3}},
			Functions: []Subprogram{{Name: "f", HasCoverageData: true, Metrics: Metrics{FunctionCalls: Counter{1, 3}}}}},
		{Name: "plain", Types: ParseType("STATEMENT"),
			Metrics:   Metrics{Statements: Counter{1, 1}, FunctionCalls: Counter{2, 2}},
			Functions: []Subprogram{{Name: "g", HasCoverageData: true}}},
	}
	r := Aggregate(units, Options{})
	assert.True(t, r.AnyCall)
	assert.False(t, r.AnyFunction)
	_, ok := r.Units[1].Entry.Value(FunctionCall)
	assert.False(t, ok, "call coverage is decided per unit")
	assert.Equal(t, "60% (3 / 5)", r.Total[FunctionCall])
}

func TestAggregator_ResultIsFreshPerAggregator(t *testing.T) {
	u := Unit{Name: "u", Types: ParseType("STATEMENT"), Metrics: Metrics{Statements: Counter{1, 2}},
		Functions: []Subprogram{{Name: "f", HasCoverageData: true}}}
	first := Aggregate([]Unit{u}, Options{})
	second := Aggregate([]Unit{u}, Options{})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("aggregations leaked state (-first +second):\n%s", diff)
	}
	assert.Equal(t, "u", second.Units[0].DisplayName)
}

func TestCounterRatio(t *testing.T) {
	assert.InDelta(t, 0.25, Counter{Covered: 1, Total: 4}.Ratio(), 1e-9)
	assert.InDelta(t, 1.0, Counter{}.Ratio(), 1e-9)
}
