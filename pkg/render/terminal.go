package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/covreport/pkg/pattern"
)

// Terminal renders patterns as styled terminal output via lipgloss.
// Column widths are measured in display cells so unit names from CJK
// environments line up.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display, one blank line between
// sections.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		var s string
		switch v := p.(type) {
		case *pattern.Summary:
			s = t.summary(v)
		case *pattern.Leaderboard:
			s = t.leaderboard(v)
		case *pattern.TestTable:
			s = t.table(v)
		}
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

// cell is one styled column value.
type cell struct {
	text  string
	style lipgloss.Style
	right bool
}

// block writes a heading and rows of cells, padding every column to its
// widest value. Columns are capped at maxWidth cells and truncated.
func (t *Terminal) block(heading string, headingStyle lipgloss.Style, rows [][]cell, maxWidth int) string {
	widths := map[int]int{}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], min(runewidth.StringWidth(c.text), maxWidth))
		}
	}

	var sb strings.Builder
	if heading != "" {
		sb.WriteString(headingStyle.Render(heading) + "\n")
	}
	for _, row := range rows {
		parts := make([]string, 0, len(row))
		for i, c := range row {
			text := runewidth.Truncate(c.text, widths[i], "...")
			if i == len(row)-1 && !c.right {
				parts = append(parts, c.style.Render(text))
				continue
			}
			if c.right {
				text = runewidth.FillLeft(text, widths[i])
			} else {
				text = runewidth.FillRight(text, widths[i])
			}
			parts = append(parts, c.style.Render(text))
		}
		sb.WriteString("  " + strings.Join(parts, "  ") + "\n")
	}
	return sb.String()
}

func (t *Terminal) summary(s *pattern.Summary) string {
	rows := make([][]cell, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		icon, style := t.kindStyle(m.Kind)
		rows = append(rows, []cell{
			{text: icon + " " + m.Label + ":", style: style},
			{text: m.Value, style: style},
		})
	}
	heading := t.theme.Bold
	if s.Kind == pattern.SummaryKindCoverage {
		heading = t.theme.Primary
	}
	return t.block(s.Label, heading, rows, t.width)
}

func (t *Terminal) leaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	heading := l.Label
	if l.MetricName != "" {
		heading += " (" + l.MetricName + ")"
	}
	if l.TotalCount > len(l.Items) {
		heading += fmt.Sprintf(" top %d of %d", len(l.Items), l.TotalCount)
	}

	rows := make([][]cell, 0, len(l.Items))
	for _, item := range l.Items {
		var row []cell
		if l.ShowRank {
			row = append(row, cell{text: fmt.Sprintf("%d.", item.Rank), style: t.theme.Muted, right: true})
		}
		row = append(row,
			cell{text: item.Name, style: t.theme.Primary},
			cell{text: item.Metric, style: t.theme.Warning, right: true},
			cell{text: item.Context, style: t.theme.Muted},
		)
		rows = append(rows, row)
	}
	return t.block(heading, t.theme.Bold, rows, t.width/2)
}

func (t *Terminal) table(tt *pattern.TestTable) string {
	if len(tt.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render(tt.Label) + "\n")
	for _, r := range tt.Results {
		icon, style := t.statusStyle(r.Status)
		line := style.Render(icon) + " " + runewidth.Truncate(r.Name, t.width-4, "...")
		if r.Duration != "" {
			line += "  " + t.theme.Muted.Render(r.Duration)
		}
		sb.WriteString("  " + line + "\n")
		for _, detail := range strings.Split(r.Details, "\n") {
			if detail != "" {
				sb.WriteString("    " + t.theme.Muted.Render(detail) + "\n")
			}
		}
	}
	return sb.String()
}

func (t *Terminal) kindStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

func (t *Terminal) statusStyle(status string) (string, lipgloss.Style) {
	switch status {
	case "pass":
		return t.theme.Icons.Pass, t.theme.Success
	case "fail":
		return t.theme.Icons.Fail, t.theme.Error
	case "skip":
		return t.theme.Icons.Skip, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Muted
	}
}
