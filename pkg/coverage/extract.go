package coverage

import "fmt"

// Counter is a covered/total pair.
type Counter struct {
	Covered int `json:"covered"`
	Total   int `json:"total"`
}

// Add returns the element-wise sum.
func (c Counter) Add(o Counter) Counter {
	return Counter{Covered: c.Covered + o.Covered, Total: c.Total + o.Total}
}

// Ratio is Covered/Total, or 1 when nothing is coverable.
func (c Counter) Ratio() float64 {
	if c.Total == 0 {
		return 1
	}
	return float64(c.Covered) / float64(c.Total)
}

// Metrics holds the raw coverage counters of a unit or function.
type Metrics struct {
	Statements    Counter `json:"statements"`
	Branches      Counter `json:"branches"`
	MCDCBranches  Counter `json:"mcdc_branches"`
	MCDCPairs     Counter `json:"mcdc_pairs"`
	FunctionCalls Counter `json:"function_calls"`
	Functions     Counter `json:"functions"`
	BasisPaths    Counter `json:"basis_paths"`
	Complexity    int     `json:"complexity"`
}

// Coverable reports whether any counter has a non-zero total.
func (m Metrics) Coverable() bool {
	for _, c := range []Counter{m.Statements, m.Branches, m.MCDCBranches, m.MCDCPairs, m.FunctionCalls, m.Functions, m.BasisPaths} {
		if c.Total != 0 {
			return true
		}
	}
	return false
}

// Level selects unit or function extraction rules.
type Level int

const (
	UnitLevel Level = iota
	FunctionLevel
)

// Options are environment settings that change how counters map to entries.
type Options struct {
	// SimplifiedMCDC suppresses the mcdc pair entry.
	SimplifiedMCDC bool `json:"simplified_mcdc" yaml:"simplified_mcdc"`
	// DisplayFunctionCoverage turns on function coverage for every unit.
	DisplayFunctionCoverage bool `json:"display_function_coverage" yaml:"display_function_coverage"`
}

// Entry maps each applicable category to its percentage string. A missing
// category is inapplicable, which is not the same as "0% (0 / N)".
type Entry map[Category]string

// Value returns the entry for c and whether it applies.
func (e Entry) Value(c Category) (string, bool) {
	v, ok := e[c]
	return v, ok
}

func (e Entry) set(c Category, covered, total int) {
	if v, ok := Percent(covered, total); ok {
		e[c] = v
	} else {
		delete(e, c)
	}
}

// Percent formats covered/total as "P% (covered / total)". It returns false
// when total is zero. P is rounded half away from zero.
func Percent(covered, total int) (string, bool) {
	if total == 0 {
		return "", false
	}
	p := (200*covered + total) / (2 * total)
	return fmt.Sprintf("%d%% (%d / %d)", p, covered, total), true
}

// Subject is the entity being extracted. CoveredObjects only matters at
// function level, where function coverage is all-or-nothing.
type Subject struct {
	Metrics        Metrics
	CoveredObjects bool
}

// Extract builds the coverage entry for one unit or function.
func Extract(level Level, s Subject, cats Set, opts Options) Entry {
	e := Entry{}
	m := s.Metrics

	if cats.Has(Function) || opts.DisplayFunctionCoverage {
		if level == FunctionLevel {
			if s.CoveredObjects {
				e.set(Function, 1, 1)
			} else {
				e.set(Function, 0, 1)
			}
		} else {
			e.set(Function, m.Functions.Covered, m.Functions.Total)
		}
	}
	if cats.Has(FunctionCall) {
		e.set(FunctionCall, m.FunctionCalls.Covered, m.FunctionCalls.Total)
	}
	if cats.Has(MCDC) {
		e.set(Branch, m.MCDCBranches.Covered, m.MCDCBranches.Total)
		if !opts.SimplifiedMCDC {
			e.set(MCDC, m.MCDCPairs.Covered, m.MCDCPairs.Total)
		}
	}
	if cats.Has(BasisPath) {
		e.set(BasisPath, m.BasisPaths.Covered, m.BasisPaths.Total)
	}
	if cats.Has(Statement) {
		e.set(Statement, m.Statements.Covered, m.Statements.Total)
	}
	if cats.Has(Branch) {
		e.set(Branch, m.Branches.Covered, m.Branches.Total)
	}
	return e
}
