// Package coverage turns per-unit and per-function coverage counters into
// the percentage entries written to coverage reports, and aggregates them
// across units into environment or project totals.
package coverage

import "strings"

// Category is one kind of structural coverage.
type Category uint8

const (
	Statement Category = 1 << iota
	Branch
	MCDC
	BasisPath
	Function
	FunctionCall
)

// Ordered lists every category in report order.
var Ordered = []Category{Statement, Branch, MCDC, BasisPath, Function, FunctionCall}

// Label is the name used in coverage report type attributes.
func (c Category) Label() string {
	switch c {
	case Statement:
		return "statement"
	case Branch:
		return "branch"
	case MCDC:
		return "mcdc"
	case BasisPath:
		return "basispath"
	case Function:
		return "function"
	case FunctionCall:
		return "functioncall"
	default:
		return "unknown"
	}
}

// Set is a set of active categories.
type Set uint8

// Has reports whether c is in the set.
func (s Set) Has(c Category) bool { return s&Set(c) != 0 }

// With returns the set with c added.
func (s Set) With(c Category) Set { return s | Set(c) }

// Union returns the categories active in either set.
func (s Set) Union(o Set) Set { return s | o }

// Empty reports whether no category is active.
func (s Set) Empty() bool { return s == 0 }

func (s Set) String() string {
	if s.Empty() {
		return "none"
	}
	var names []string
	for _, c := range Ordered {
		if s.Has(c) {
			names = append(names, c.Label())
		}
	}
	return strings.Join(names, "+")
}

// ParseType builds the category set for the given coverage-type tags,
// such as "STATEMENT_BRANCH" or "MCDC_FUNCTION_CALL". A unit carrying
// several tags gets the union.
func ParseType(tags ...string) Set {
	var s Set
	for _, tag := range tags {
		s = s.Union(parseTag(strings.ToUpper(strings.TrimSpace(tag))))
	}
	return s
}

func parseTag(tag string) Set {
	var s Set
	if tag == "" || tag == "NONE" {
		return s
	}
	if strings.Contains(tag, "MCDC") {
		s = s.With(MCDC)
	}
	if strings.Contains(tag, "BASIS_PATH") {
		s = s.With(BasisPath)
	}
	if strings.Contains(tag, "STATEMENT") {
		s = s.With(Statement)
	}
	if strings.Contains(tag, "BRANCH") {
		s = s.With(Branch)
	}
	if tag == "FUNCTION_COVERAGE" || tag == "FUNCTION_FUNCTION_CALL" {
		s = s.With(Function)
	}
	if tag == "FUNCTION_COVERAGE" || strings.HasSuffix(tag, "FUNCTION_CALL") {
		s = s.With(FunctionCall)
	}
	return s
}
