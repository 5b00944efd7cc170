// Package mapper converts run results into visualization patterns.
package mapper

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/covreport/pkg/coverage"
	"github.com/dkoosis/covreport/pkg/pattern"
)

const (
	statusFail  = "fail"
	kindSuccess = "success"
	kindError   = "error"
	kindWarning = "warning"
	kindInfo    = "info"

	// DefaultTop is how many units the lowest-coverage leaderboard keeps.
	DefaultTop = 5
)

// title upper-cases the first letter of each word. Casers carry state, so
// each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// Environment is what one environment contributed to a run.
type Environment struct {
	Name        string
	Coverage    *coverage.Result
	Passed      int
	Failed      int
	Skipped     int
	FailedTests []string
	// Err is set when the environment was abandoned.
	Err error
}

// Run is the input to FromRun. Project is empty for a batch of
// standalone environments.
type Run struct {
	Project      string
	Coverage     *coverage.Result
	Environments []Environment
}

// FromRun converts a run into patterns: a headline summary, one coverage
// summary per report written, the lowest-coverage units, failed tests and
// abandoned environments. Empty sections are left out.
func FromRun(run Run, top int) []pattern.Pattern {
	if top <= 0 {
		top = DefaultTop
	}
	patterns := []pattern.Pattern{headline(run)}

	if run.Coverage != nil {
		patterns = append(patterns, coverageSummary(run.Project, run.Coverage))
	}
	for _, env := range run.Environments {
		if env.Coverage != nil && env.Err == nil {
			patterns = append(patterns, coverageSummary(env.Name, env.Coverage))
		}
	}
	if lb := lowestCoverage(run, top); lb != nil {
		patterns = append(patterns, lb)
	}
	if tt := failedTests(run); tt != nil {
		patterns = append(patterns, tt)
	}
	if tt := abandoned(run); tt != nil {
		patterns = append(patterns, tt)
	}
	return patterns
}

func headline(run Run) *pattern.Summary {
	var units, subprograms, passed, failed, skipped, lost int
	for _, env := range run.Environments {
		if env.Err != nil {
			lost++
			continue
		}
		if env.Coverage != nil {
			units += len(env.Coverage.Units)
			subprograms += env.Coverage.Subprograms
		}
		passed += env.Passed
		failed += env.Failed
		skipped += env.Skipped
	}
	if run.Coverage != nil {
		units = len(run.Coverage.Units)
		subprograms = run.Coverage.Subprograms
	}

	envs := plural(len(run.Environments), "environment")
	label := "COVREPORT: " + envs
	if run.Project != "" {
		label = fmt.Sprintf("COVREPORT: project %s, %s", run.Project, envs)
	}
	if lost == 0 {
		label += " — all written"
	} else {
		label += fmt.Sprintf(" — %d abandoned", lost)
	}

	kind := pattern.SummaryKindEnvironment
	if run.Project != "" {
		kind = pattern.SummaryKindProject
	}
	count := func(name string, n int, nonZero string) pattern.SummaryItem {
		k := kindInfo
		if n > 0 {
			k = nonZero
		}
		return pattern.SummaryItem{Label: title(name), Value: fmt.Sprintf("%d", n), Kind: k}
	}
	return &pattern.Summary{
		Label: label,
		Kind:  kind,
		Metrics: []pattern.SummaryItem{
			count("units", units, kindInfo),
			count("subprograms", subprograms, kindInfo),
			count("passed", passed, kindSuccess),
			count("failed", failed, kindError),
			count("skipped", skipped, kindWarning),
			count("abandoned", lost, kindError),
		},
	}
}

// plural formats n with noun, adding an s unless n is one.
func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// CategoryLabel is the display name of a coverage category.
func CategoryLabel(c coverage.Category) string {
	switch c {
	case coverage.MCDC:
		return "MC/DC"
	case coverage.BasisPath:
		return "Basis Path"
	case coverage.FunctionCall:
		return "Function Call"
	default:
		return title(c.Label())
	}
}

// counter picks the counter a category's percentage is computed from.
func counter(m coverage.Metrics, c coverage.Category) coverage.Counter {
	switch c {
	case coverage.Statement:
		return m.Statements
	case coverage.Branch:
		if m.Branches.Total == 0 {
			return m.MCDCBranches
		}
		return m.Branches
	case coverage.MCDC:
		return m.MCDCPairs
	case coverage.BasisPath:
		return m.BasisPaths
	case coverage.Function:
		return m.Functions
	case coverage.FunctionCall:
		return m.FunctionCalls
	default:
		return coverage.Counter{}
	}
}

func kindFor(ratio float64) string {
	switch {
	case ratio >= 0.8:
		return kindSuccess
	case ratio >= 0.5:
		return kindWarning
	default:
		return kindError
	}
}

func coverageSummary(name string, r *coverage.Result) *pattern.Summary {
	s := &pattern.Summary{Label: name, Kind: pattern.SummaryKindCoverage}
	for _, c := range coverage.Ordered {
		v, ok := r.Total.Value(c)
		if !ok {
			continue
		}
		s.Metrics = append(s.Metrics, pattern.SummaryItem{
			Label: CategoryLabel(c),
			Value: v,
			Kind:  kindFor(counter(r.Totals.Metrics, c).Ratio()),
		})
	}
	return s
}

// primary is the category units are ranked by: statement coverage when
// present, otherwise the first active category.
func primary(cats coverage.Set) (coverage.Category, bool) {
	if cats.Has(coverage.Statement) {
		return coverage.Statement, true
	}
	for _, c := range coverage.Ordered {
		if cats.Has(c) && c != coverage.Function && c != coverage.FunctionCall {
			return c, true
		}
	}
	return 0, false
}

func lowestCoverage(run Run, top int) *pattern.Leaderboard {
	type source struct {
		env string
		r   *coverage.Result
	}
	var sources []source
	if run.Coverage != nil {
		sources = append(sources, source{run.Project, run.Coverage})
	} else {
		for _, env := range run.Environments {
			if env.Coverage != nil && env.Err == nil {
				sources = append(sources, source{env.Name, env.Coverage})
			}
		}
	}

	var items []pattern.LeaderboardItem
	metric := ""
	for _, src := range sources {
		c, ok := primary(src.r.Categories)
		if !ok {
			continue
		}
		if metric == "" {
			metric = CategoryLabel(c)
		}
		for _, u := range src.r.Units {
			v, ok := u.Entry.Value(c)
			if !ok {
				continue
			}
			items = append(items, pattern.LeaderboardItem{
				Name:    u.DisplayName,
				Metric:  v,
				Value:   counter(u.Metrics, c).Ratio(),
				Context: src.env,
			})
		}
	}
	if len(items) == 0 {
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Value < items[j].Value })
	total := len(items)
	if len(items) > top {
		items = items[:top]
	}
	for i := range items {
		items[i].Rank = i + 1
	}
	return &pattern.Leaderboard{
		Label:      "Lowest coverage",
		MetricName: metric,
		Items:      items,
		TotalCount: total,
		ShowRank:   true,
	}
}

func failedTests(run Run) *pattern.TestTable {
	tt := &pattern.TestTable{Label: "Failed tests"}
	for _, env := range run.Environments {
		for _, name := range env.FailedTests {
			tt.Results = append(tt.Results, pattern.TestTableItem{
				Name:    name,
				Status:  statusFail,
				Details: env.Name,
			})
		}
	}
	if len(tt.Results) == 0 {
		return nil
	}
	return tt
}

func abandoned(run Run) *pattern.TestTable {
	tt := &pattern.TestTable{Label: "Abandoned environments"}
	for _, env := range run.Environments {
		if env.Err == nil {
			continue
		}
		tt.Results = append(tt.Results, pattern.TestTableItem{
			Name:    env.Name,
			Status:  statusFail,
			Details: strings.TrimSpace(env.Err.Error()),
		})
	}
	if len(tt.Results) == 0 {
		return nil
	}
	return tt
}
