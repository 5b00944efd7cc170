package render

import (
	"bytes"
	"encoding/json"

	"github.com/dkoosis/covreport/pkg/pattern"
)

// jsonSchema versions the JSON summary layout, independent of the tool
// version.
const jsonSchema = "1"

// JSON renders patterns as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonOutput struct {
	Version  string        `json:"version"`
	Patterns []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Render formats all patterns as indented JSON. HTML escaping is off so
// placeholder test names such as <<COMPOUND>> come through verbatim.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := jsonOutput{
		Version:  jsonSchema,
		Patterns: make([]jsonPattern, 0, len(patterns)),
	}
	for _, p := range patterns {
		out.Patterns = append(out.Patterns, jsonPattern{Type: string(p.Type()), Data: p})
	}

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON) + "\n"
	}
	return b.String()
}
