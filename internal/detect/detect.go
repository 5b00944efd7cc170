// Package detect sniffs snapshot files to determine their syntax and kind.
package detect

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Format represents a recognized snapshot kind.
type Format int

const (
	Unknown             Format = iota
	EnvironmentSnapshot        // one environment: identity, units, test cases
	ProjectSnapshot            // project name plus a list of environments
)

func (f Format) String() string {
	switch f {
	case EnvironmentSnapshot:
		return "environment"
	case ProjectSnapshot:
		return "project"
	default:
		return "unknown"
	}
}

// Syntax is the serialization of a snapshot.
type Syntax int

const (
	SyntaxUnknown Syntax = iota
	JSON
	YAML
)

func trimLeft(data []byte) []byte {
	for len(data) > 0 && (data[0] == ' ' || data[0] == '\t' || data[0] == '\n' || data[0] == '\r') {
		data = data[1:]
	}
	return data
}

// SyntaxOf reports whether data is a JSON object or a YAML mapping.
func SyntaxOf(data []byte) Syntax {
	data = trimLeft(data)
	if len(data) == 0 {
		return SyntaxUnknown
	}
	if data[0] == '{' {
		if json.Valid(data) {
			return JSON
		}
		return SyntaxUnknown
	}
	var probe map[string]yaml.Node
	if err := yaml.Unmarshal(data, &probe); err != nil || probe == nil {
		return SyntaxUnknown
	}
	return YAML
}

// Sniff examines the top-level keys of data to determine the snapshot kind.
func Sniff(data []byte) Format {
	var keys map[string]struct{}
	switch SyntaxOf(data) {
	case JSON:
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return Unknown
		}
		keys = make(map[string]struct{}, len(probe))
		for k := range probe {
			keys[k] = struct{}{}
		}
	case YAML:
		var probe map[string]yaml.Node
		if err := yaml.Unmarshal(data, &probe); err != nil {
			return Unknown
		}
		keys = make(map[string]struct{}, len(probe))
		for k := range probe {
			keys[k] = struct{}{}
		}
	default:
		return Unknown
	}

	if _, ok := keys["environments"]; ok {
		return ProjectSnapshot
	}
	if _, ok := keys["environment"]; ok {
		return EnvironmentSnapshot
	}
	return Unknown
}
