// Package render provides output renderers for covreport's run summary.
package render

import "github.com/dkoosis/covreport/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}

// ForFormat returns the renderer for a resolved output format. It returns
// nil for "none".
func ForFormat(format string, theme Theme, width int) Renderer {
	switch format {
	case "llm":
		return NewLLM()
	case "json":
		return NewJSON()
	case "none":
		return nil
	default:
		return NewTerminal(theme, width)
	}
}
