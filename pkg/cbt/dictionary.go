// Package cbt decides whether a test case was skipped by change-based
// testing, using per-build timing tables produced by the execution log
// parser.
package cbt

import (
	"crypto/md5" //nolint:gosec // identity digest shared with the log parser, not a security boundary
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
)

var (
	// ErrMissingIdentity means the build hash has no entry in the dictionary.
	ErrMissingIdentity = errors.New("no change-based testing entry for build")
	// ErrMalformedEntry means the entry exists but cannot be read.
	ErrMalformedEntry = errors.New("malformed change-based testing entry")
)

// Timing is the recorded start and end of one test case execution.
type Timing struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Seconds is the elapsed time between Start and End.
func (t Timing) Seconds() float64 {
	return t.End.Sub(t.Start).Seconds()
}

// Tables holds the timings recorded for one build, keyed by qualified test
// identity ("unit/function/testcase"; bare name for system tests).
type Tables struct {
	Compound map[string]Timing `json:"compound"`
	Init     map[string]Timing `json:"init"`
	Simple   map[string]Timing `json:"simple"`
}

// Empty reports whether nothing was recorded.
func (t *Tables) Empty() bool {
	return len(t.Compound) == 0 && len(t.Init) == 0 && len(t.Simple) == 0
}

// Dictionary maps build hashes to their timing tables.
type Dictionary map[string]*Tables

// Read decodes a dictionary from JSON.
func Read(r io.Reader) (Dictionary, error) {
	var d Dictionary
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode change-based testing dictionary: %w", err)
	}
	if d == nil {
		d = Dictionary{}
	}
	return d, nil
}

// ReadFile reads a dictionary file.
func ReadFile(path string) (Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// BuildHash derives the dictionary key for a build directory: the last two
// path segments, upper-cased and encoded with enc, as an MD5 hex digest.
// A nil enc hashes the UTF-8 bytes.
func BuildHash(buildDir string, enc encoding.Encoding) (string, error) {
	dir := strings.ToUpper(strings.ReplaceAll(buildDir, `\`, "/"))
	parts := strings.Split(dir, "/")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	key := strings.Join(parts, "/")

	b := []byte(key)
	if enc != nil {
		encoded, err := enc.NewEncoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("encode build directory %q: %w", buildDir, err)
		}
		b = encoded
	}
	sum := md5.Sum(b) //nolint:gosec // see import
	return hex.EncodeToString(sum[:]), nil
}

// formatSeconds renders a float the way the log parser's consumers expect:
// shortest representation, always with a fractional part.
func formatSeconds(s float64) string {
	out := strconv.FormatFloat(s, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
