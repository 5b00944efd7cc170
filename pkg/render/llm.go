package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/covreport/pkg/pattern"
)

const (
	statusFail = "fail"
	maxDetail  = 3
)

// LLM renders patterns as terse plain text for AI consumption: no ANSI
// codes, a SCOPE line first, one fact per line.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for i, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			l.summary(&sb, v, i == 0)
		case *pattern.Leaderboard:
			l.leaderboard(&sb, v)
		case *pattern.TestTable:
			l.table(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) summary(sb *strings.Builder, s *pattern.Summary, first bool) {
	if first {
		sb.WriteString("SCOPE: " + s.Label + "\n")
		parts := make([]string, 0, len(s.Metrics))
		for _, m := range s.Metrics {
			parts = append(parts, strings.ToLower(m.Label)+"="+m.Value)
		}
		if len(parts) > 0 {
			sb.WriteString(strings.Join(parts, " ") + "\n")
		}
		return
	}
	sb.WriteString("\n## " + s.Label + "\n")
	for _, m := range s.Metrics {
		sb.WriteString("  " + m.Label + ": " + m.Value + "\n")
	}
}

func (l *LLM) leaderboard(sb *strings.Builder, lb *pattern.Leaderboard) {
	if len(lb.Items) == 0 {
		return
	}
	header := lb.Label
	if lb.MetricName != "" {
		header += " by " + lb.MetricName
	}
	sb.WriteString(fmt.Sprintf("\n## %s (%d of %d)\n", header, len(lb.Items), lb.TotalCount))
	for _, item := range lb.Items {
		line := fmt.Sprintf("  %d. %s %s", item.Rank, item.Name, item.Metric)
		if item.Context != "" {
			line += " [" + item.Context + "]"
		}
		sb.WriteString(line + "\n")
	}
}

func (l *LLM) table(sb *strings.Builder, t *pattern.TestTable) {
	if len(t.Results) == 0 {
		return
	}
	sb.WriteString("\n## " + t.Label + "\n")
	for _, item := range t.Results {
		prefix := "  PASS"
		switch item.Status {
		case statusFail:
			prefix = "  FAIL"
		case "skip":
			prefix = "  SKIP"
		}
		dur := ""
		if item.Duration != "" {
			dur = " (" + item.Duration + ")"
		}
		sb.WriteString(fmt.Sprintf("%s %s%s\n", prefix, item.Name, dur))

		if item.Details == "" {
			continue
		}
		lines := strings.Split(item.Details, "\n")
		for _, line := range lines[:min(len(lines), maxDetail)] {
			sb.WriteString("    " + line + "\n")
		}
		if len(lines) > maxDetail {
			sb.WriteString(fmt.Sprintf("    ... (%d more lines)\n", len(lines)-maxDetail))
		}
	}
}
