// Package emma writes the Emma-style coverage report read by the CI
// coverage plugin.
package emma

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dkoosis/covreport/internal/xmltext"
	"github.com/dkoosis/covreport/pkg/coverage"
)

// Document is one coverage report: a single environment (or project)
// section holding its units and their subprograms.
type Document struct {
	Generated   time.Time
	Environment string
	Result      coverage.Result
}

// New builds a document from an aggregation result.
func New(environment string, r coverage.Result, generated time.Time) *Document {
	return &Document{Generated: generated, Environment: environment, Result: r}
}

// Timestamp renders t as used in the report header, e.g.
// "05 MAR 2024  3:04:05 PM". Hours past noon are shown 1-12; midnight is 0.
func Timestamp(t time.Time) string {
	h := t.Hour()
	if h > 12 {
		h -= 12
	}
	return strings.ToUpper(fmt.Sprintf("%s  %d:%s", t.Format("02 Jan 2006"), h, t.Format("04:05 PM")))
}

// WriteTo writes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	r := d.Result

	fmt.Fprintf(&b, "<!-- VectorCAST/Jenkins Integration, Generated %s -->\n", Timestamp(d.Generated))
	b.WriteString("<report>\n")
	b.WriteString("  <version value=\"3\"/>\n")
	b.WriteString("  <stats>\n")
	b.WriteString("    <environments value=\"1\"/>\n")
	fmt.Fprintf(&b, "    <units value=\"%d\"/>\n", len(r.Units))
	fmt.Fprintf(&b, "    <subprograms value=\"%d\"/>\n", r.Subprograms)
	b.WriteString("  </stats>\n")
	b.WriteString("  <data>\n")

	b.WriteString("    <all name=\"all environments\">\n")
	writeCoverage(&b, 6, r.Total, r.Totals.Complexity)
	b.WriteString("\n")

	fmt.Fprintf(&b, "      <environment name=\"%s\">\n", xmltext.Attr(d.Environment))
	writeCoverage(&b, 8, r.Total, r.Totals.Complexity)
	b.WriteString("\n")

	for _, u := range r.Units {
		fmt.Fprintf(&b, "        <unit name=\"%s\">\n", xmltext.Attr(u.DisplayName))
		writeCoverage(&b, 10, u.Entry, u.Complexity)
		for _, f := range u.Functions {
			fmt.Fprintf(&b, "          <subprogram name=\"%s\">\n", xmltext.Attr(f.Name))
			writeCoverage(&b, 12, f.Entry, f.Complexity)
			b.WriteString("          </subprogram>\n")
		}
		b.WriteString("        </unit>\n")
	}

	b.WriteString("      </environment>\n")
	b.WriteString("    </all>\n")
	b.WriteString("  </data>\n")
	b.WriteString("</report>")

	n, err := w.Write(b.Bytes())
	return int64(n), err
}

func writeCoverage(b *bytes.Buffer, indent int, e coverage.Entry, complexity int) {
	pad := strings.Repeat(" ", indent)
	for _, c := range coverage.Ordered {
		if v, ok := e.Value(c); ok {
			fmt.Fprintf(b, "%s<coverage type=\"%s, %%\" value=\"%s\"/>\n", pad, c.Label(), v)
		}
	}
	fmt.Fprintf(b, "%s<coverage type=\"complexity, %%\" value=\"0%% (%d / 0)\"/>\n", pad, complexity)
}
