package coverage

import (
	"fmt"
	"sort"
)

// Subprogram is one function as seen by the aggregator.
type Subprogram struct {
	Name            string
	Order           int
	HasCoverageData bool
	CoveredObjects  bool
	Metrics         Metrics
	// Complexity is negative when unknown.
	Complexity int
}

// Unit is one source unit as seen by the aggregator.
type Unit struct {
	Name      string
	Types     Set
	Metrics   Metrics
	Functions []Subprogram
}

// FunctionEntry is a retained function with its coverage entry.
type FunctionEntry struct {
	Name       string
	Entry      Entry
	Complexity int
}

// UnitEntry is an emitted unit. DisplayName carries the 'N suffix when the
// name repeats within one report.
type UnitEntry struct {
	Name        string
	DisplayName string
	Entry       Entry
	Metrics     Metrics
	Complexity  int
	Functions   []FunctionEntry
}

// Totals accumulates counters across retained units.
type Totals struct {
	Metrics    Metrics
	Complexity int
}

func (t *Totals) add(m Metrics, basisPath bool) {
	t.Metrics.Statements = t.Metrics.Statements.Add(m.Statements)
	t.Metrics.Branches = t.Metrics.Branches.Add(m.Branches)
	t.Metrics.MCDCBranches = t.Metrics.MCDCBranches.Add(m.MCDCBranches)
	t.Metrics.MCDCPairs = t.Metrics.MCDCPairs.Add(m.MCDCPairs)
	t.Metrics.FunctionCalls = t.Metrics.FunctionCalls.Add(m.FunctionCalls)
	t.Metrics.Functions = t.Metrics.Functions.Add(m.Functions)
	if basisPath {
		t.Metrics.BasisPaths = t.Metrics.BasisPaths.Add(m.BasisPaths)
	}
}

// Result is the outcome of one aggregation.
type Result struct {
	Units       []UnitEntry
	Totals      Totals
	Total       Entry
	Categories  Set
	Subprograms int
	AnyFunction bool
	AnyCall     bool
}

// Aggregator accumulates units into a Result. The zero value is not usable;
// call NewAggregator. Each report gets its own Aggregator.
type Aggregator struct {
	opts   Options
	result Result
	names  map[string]int
}

// NewAggregator returns an empty aggregator.
func NewAggregator(opts Options) *Aggregator {
	return &Aggregator{opts: opts, names: make(map[string]int)}
}

// Add folds one unit into the running result. It reports whether the unit
// was emitted, which requires coverable elements and at least one function
// with coverage data.
func (a *Aggregator) Add(u Unit) bool {
	if !u.Metrics.Coverable() {
		return false
	}

	cats := u.Types
	if a.opts.DisplayFunctionCoverage {
		cats = cats.With(Function)
	}
	a.result.Categories = a.result.Categories.Union(cats)
	if cats.Has(Function) {
		a.result.AnyFunction = true
	}
	if cats.Has(FunctionCall) {
		a.result.AnyCall = true
	}

	retained := make([]Subprogram, 0, len(u.Functions))
	for _, f := range u.Functions {
		if f.HasCoverageData {
			retained = append(retained, f)
		}
	}
	sort.SliceStable(retained, func(i, j int) bool { return retained[i].Order < retained[j].Order })

	entry := UnitEntry{
		Name:    u.Name,
		Entry:   Extract(UnitLevel, Subject{Metrics: u.Metrics}, cats, a.opts),
		Metrics: u.Metrics,
	}
	for _, f := range retained {
		fe := FunctionEntry{
			Name:  f.Name,
			Entry: Extract(FunctionLevel, Subject{Metrics: f.Metrics, CoveredObjects: f.CoveredObjects}, cats, a.opts),
		}
		if f.Complexity >= 0 {
			fe.Complexity = f.Complexity
			entry.Complexity += f.Complexity
		}
		entry.Functions = append(entry.Functions, fe)
	}

	a.result.Totals.add(u.Metrics, cats.Has(BasisPath))
	a.result.Totals.Complexity += entry.Complexity

	if len(entry.Functions) == 0 {
		return false
	}
	entry.DisplayName = a.displayName(u.Name)
	a.result.Subprograms += len(entry.Functions)
	a.result.Units = append(a.result.Units, entry)
	return true
}

func (a *Aggregator) displayName(name string) string {
	n, seen := a.names[name]
	if !seen {
		a.names[name] = 0
		return name
	}
	n++
	a.names[name] = n
	return fmt.Sprintf("%s'%d", name, n)
}

// Result returns the aggregate so far, with the grand-total entry computed
// over the union of categories seen.
func (a *Aggregator) Result() Result {
	r := a.result
	r.Units = append([]UnitEntry(nil), a.result.Units...)
	r.Total = Extract(UnitLevel, Subject{Metrics: r.Totals.Metrics}, r.Categories, a.opts)
	return r
}

// Aggregate folds units in order with a fresh Aggregator.
func Aggregate(units []Unit, opts Options) Result {
	a := NewAggregator(opts)
	for _, u := range units {
		a.Add(u)
	}
	return a.Result()
}
