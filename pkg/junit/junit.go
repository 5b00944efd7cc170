// Package junit writes JUnit-style test result documents.
package junit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dkoosis/covreport/internal/xmltext"
)

// Outcome is the reported result of one test case.
type Outcome int

const (
	Pass Outcome = iota
	Fail
	Skip
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// TestCase is one <testcase> record. Name and ClassName are raw text;
// escaping happens on write.
type TestCase struct {
	Name      string
	ClassName string
	Time      string
	Outcome   Outcome
	// Message is the failure message attribute. An empty message on a
	// failing case writes a bare <failure type="failure"/>.
	Message string
	// Output is the raw system-out body; empty omits the element.
	Output string
}

// Suite is the single <testsuite> of a document.
type Suite struct {
	Name     string
	Tests    int
	Failures int
	Errors   int
	Cases    []TestCase
}

// Document is a complete test results file.
type Document struct {
	// Encoding is the charset name declared in the XML prolog.
	Encoding string
	Suite    Suite
}

// WriteTo writes the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	enc := d.Encoding
	if enc == "" {
		enc = "utf-8"
	}
	fmt.Fprintf(&b, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", enc)
	b.WriteString("<testsuites>\n")
	fmt.Fprintf(&b, "    <testsuite errors=\"%d\" tests=\"%d\" failures=\"%d\" name=\"%s\" id=\"1\">\n",
		d.Suite.Errors, d.Suite.Tests, d.Suite.Failures, xmltext.Attr(d.Suite.Name))
	for i := range d.Suite.Cases {
		writeCase(&b, &d.Suite.Cases[i])
	}
	b.WriteString("    </testsuite>\n")
	b.WriteString("</testsuites>\n")

	n, err := w.Write(b.Bytes())
	return int64(n), err
}

func writeCase(b *bytes.Buffer, tc *TestCase) {
	t := tc.Time
	if t == "" {
		t = "0.0"
	}
	fmt.Fprintf(b, "        <testcase name=\"%s\" classname=\"%s\" time=\"%s\">\n",
		xmltext.Attr(tc.Name), xmltext.Attr(tc.ClassName), xmltext.Attr(t))
	switch tc.Outcome {
	case Skip:
		b.WriteString("            <skipped/>\n")
	case Fail:
		if tc.Message != "" {
			fmt.Fprintf(b, "            <failure type=\"failure\" message=\"%s\"/>\n", xmltext.Attr(tc.Message))
		} else {
			b.WriteString("            <failure type=\"failure\"/>\n")
		}
	}
	if tc.Output != "" && tc.Outcome != Skip {
		b.WriteString("            <system-out>\n")
		b.WriteString(xmltext.SystemOut(tc.Output))
		b.WriteString("\n            </system-out>\n")
	}
	b.WriteString("        </testcase>\n")
}
