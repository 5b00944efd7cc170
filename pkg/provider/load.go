package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/covreport/internal/detect"
)

var errUnknownSyntax = errors.New("unrecognized snapshot syntax")

func unmarshal(data []byte, v any) error {
	switch detect.SyntaxOf(data) {
	case detect.JSON:
		return json.Unmarshal(data, v)
	case detect.YAML:
		return yaml.Unmarshal(data, v)
	default:
		return errUnknownSyntax
	}
}

// Load reads an environment snapshot file.
func Load(path string) (*Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	env, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	env.Source = path
	return env, nil
}

// Decode parses an environment snapshot.
func Decode(data []byte) (*Environment, error) {
	var raw rawSnapshot
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return raw.normalize()
}

func (raw *rawSnapshot) normalize() (*Environment, error) {
	re := raw.Environment
	if re.Name == "" {
		return nil, fmt.Errorf("environment name: %w", ErrMalformedShape)
	}
	env := &Environment{
		Name:         re.Name,
		Compiler:     re.Compiler,
		TestSuite:    re.TestSuite,
		Group:        re.Group,
		BuildDir:     re.BuildDir,
		Kind:         KindUnit,
		Monitored:    re.Monitored,
		CoverageType: re.CoverageType,
		Options:      re.Options.normalize(),
		ToolVersion:  raw.ToolVersion,
		Imported:     raw.Imported,
	}
	switch strings.ToLower(re.Kind) {
	case "", string(KindUnit):
	case string(KindCover):
		env.Kind = KindCover
	default:
		return nil, fmt.Errorf("environment %s: kind %q: %w", re.Name, re.Kind, ErrMalformedShape)
	}

	units := raw.Units
	if env.Kind == KindCover {
		units = append([]rawUnit(nil), units...)
		sort.SliceStable(units, func(i, j int) bool {
			ti, tj := unitTypeKey(&units[i]), unitTypeKey(&units[j])
			if ti != tj {
				return ti < tj
			}
			return units[i].UnitIndex < units[j].UnitIndex
		})
	}

	var envTypes []string
	if re.CoverageType != "" {
		envTypes = []string{re.CoverageType}
	}
	s := probeShape(units, env.Kind == KindCover)
	for i := range units {
		u, err := s.unit(&units[i], envTypes)
		if err != nil {
			return nil, fmt.Errorf("environment %s: %w", re.Name, err)
		}
		env.Units = append(env.Units, u)
	}

	for i := range raw.TestCases {
		env.TestCases = append(env.TestCases, testCase(&raw.TestCases[i], "", ""))
	}
	for _, st := range raw.SystemTests {
		env.SystemTests = append(env.SystemTests, SystemTest{
			Name:        st.Name,
			BuildStatus: st.BuildStatus,
			RunNeeded:   st.RunNeeded,
			Manual:      strings.EqualFold(st.Type, "manual"),
			Passed:      st.Passed,
			Total:       st.Total,
		})
	}
	return env, nil
}

func unitTypeKey(u *rawUnit) string {
	if u.CoverageType != nil {
		return *u.CoverageType
	}
	return strings.Join(u.CoverageTypes, ",")
}

// LoadProject reads a project snapshot. Environments that fail to load are
// recorded in Failures; the project itself fails only when the project
// file cannot be read.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project snapshot: %w", err)
	}
	var raw rawProject
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("load %s: decode project snapshot: %w", path, err)
	}
	name := raw.Project
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	p := &Project{Name: name, Options: raw.Options.normalize(), Source: path}

	for i, re := range raw.Environments {
		var (
			env *Environment
			err error
			src string
		)
		switch {
		case re.Snapshot != nil:
			src = fmt.Sprintf("%s#environments[%d]", path, i)
			env, err = re.Snapshot.normalize()
			if env != nil {
				env.Source = path
			}
		case re.Path != "":
			src = re.Path
			if !filepath.IsAbs(src) {
				src = filepath.Join(filepath.Dir(path), src)
			}
			env, err = Load(src)
		default:
			src = fmt.Sprintf("%s#environments[%d]", path, i)
			err = fmt.Errorf("environment entry has neither path nor snapshot: %w", ErrMalformedShape)
		}
		if err != nil {
			p.Failures = append(p.Failures, LoadFailure{Path: src, Err: err})
			continue
		}
		p.Environments = append(p.Environments, env)
	}
	return p, nil
}
