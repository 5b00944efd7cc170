// Package charset maps the tool language setting to the output encoding
// and writes report files in it.
package charset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownLanguage means the language has no known output encoding.
var ErrUnknownLanguage = errors.New("unknown language")

// Charset is an output encoding and the name declared for it in XML.
type Charset struct {
	Name     string
	Encoding encoding.Encoding
}

// UTF8 is the default charset.
var UTF8 = Charset{Name: "utf-8", Encoding: unicode.UTF8}

var languages = map[string]Charset{
	"english":  UTF8,
	"japanese": {Name: "shift-jis", Encoding: japanese.ShiftJIS},
	"chinese":  {Name: "GBK", Encoding: simplifiedchinese.GBK},
}

// Languages lists the supported language names.
func Languages() []string {
	return []string{"english", "japanese", "chinese"}
}

// ForLanguage returns the charset used for reports in lang.
func ForLanguage(lang string) (Charset, error) {
	c, ok := languages[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		return Charset{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return c, nil
}

// Lookup resolves an encoding by its IANA or WHATWG name, such as
// "shift_jis" or "gbk". The declared name is kept as given.
func Lookup(name string) (Charset, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return Charset{}, fmt.Errorf("encoding %q: %w", name, err)
	}
	return Charset{Name: name, Encoding: enc}, nil
}

// NewWriter returns a writer that encodes UTF-8 input into c.
func (c Charset) NewWriter(w io.Writer) io.Writer {
	if c.Encoding == nil {
		return w
	}
	return transform.NewWriter(w, c.Encoding.NewEncoder())
}

// WriteFile creates path, including parent directories, and streams fn's
// output into it encoded as c.
func (c Charset) WriteFile(path string, fn func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := c.NewWriter(f)
	if err := fn(w); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if closer, ok := w.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("flush %s: %w", path, err)
		}
	}
	return nil
}
