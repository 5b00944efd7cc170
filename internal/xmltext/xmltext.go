// Package xmltext escapes strings for the hand-assembled XML reports.
//
// The report grammars are consumed by line-oriented CI parsers, so the
// writers build each line themselves and only need the escape rules here.
package xmltext

import "strings"

var (
	textReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	newlineReplacer = strings.NewReplacer(
		"\r\n", "&#xA;",
		"\n", "&#xA;",
	)
)

// Text escapes character data. Quotes and newlines pass through.
func Text(s string) string {
	return textReplacer.Replace(s)
}

// Attr escapes a value for use inside a double-quoted attribute. Single
// quotes pass through so duplicate unit names keep their 'N suffix.
func Attr(s string) string {
	return attrReplacer.Replace(s)
}

// SystemOut prepares free text for a <system-out> element: markup is
// escaped, double quotes are dropped and every line break becomes a
// literal &#xA; so the body stays on one physical line.
func SystemOut(s string) string {
	s = Text(s)
	s = strings.ReplaceAll(s, `"`, "")
	return newlineReplacer.Replace(s)
}
