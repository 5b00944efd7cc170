package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with no user config,
// returning the absolute testdata path and an output directory.
func isolate(t *testing.T) (testdata, out string) {
	t.Helper()
	testdata, err := filepath.Abs("testdata")
	require.NoError(t, err)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "")
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "COVREPORT_") {
			t.Setenv(k, "")
		}
	}
	chdir(t, t.TempDir())
	return testdata, t.TempDir()
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "covreport "), stdout)
}

func TestEnv_WritesReportsAndSummary(t *testing.T) {
	testdata, out := isolate(t)

	code, stdout, stderr := runCLI(t, "env", filepath.Join(testdata, "*.json"), "-o", out, "--format", "llm")
	require.Equal(t, 0, code, stderr)

	for _, name := range []string{"coverage_results_ENV1.xml", "test_results_ENV1.xml"} {
		_, err := os.Stat(filepath.Join(out, "xml_data", name))
		assert.NoError(t, err, name)
	}
	assert.Contains(t, stdout, "SCOPE: COVREPORT: 1 environment — all written\n")
	assert.Contains(t, stdout, "passed=1 failed=1")
	assert.Contains(t, stdout, "## Lowest coverage by Statement (1 of 1)\n  1. u1 40% (4 / 10) [ENV1]\n")
	assert.Contains(t, stdout, "## Failed tests\n  FAIL u1.f.T2\n    ENV1\n")
	assert.Contains(t, stderr, "test results written")
}

func TestEnv_MissingSnapshotIsAbandoned(t *testing.T) {
	testdata, out := isolate(t)

	code, stdout, stderr := runCLI(t, "env",
		filepath.Join(testdata, "env1.json"),
		filepath.Join(testdata, "nope.json"),
		"-o", out, "--format", "llm")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "1 abandoned")
	assert.Contains(t, stdout, "## Abandoned environments\n")
	assert.Contains(t, stderr, "environment abandoned")
}

func TestEnv_FormatNoneWritesNothingToStdout(t *testing.T) {
	testdata, out := isolate(t)
	code, stdout, _ := runCLI(t, "env", filepath.Join(testdata, "env1.json"), "-o", out, "--format", "none")
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
}

func TestEnv_JapaneseDeclaresShiftJIS(t *testing.T) {
	testdata, out := isolate(t)
	code, _, stderr := runCLI(t, "env", filepath.Join(testdata, "env1.json"), "-o", out, "--format", "none", "--language", "japanese")
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(out, "xml_data", "test_results_ENV1.xml"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(`<?xml version="1.0" encoding="shift-jis"?>`)))
}

func TestEnv_NoExecReportsFlag(t *testing.T) {
	testdata, out := isolate(t)
	code, _, _ := runCLI(t, "env", filepath.Join(testdata, "env1.json"), "-o", out, "--format", "none", "--no-exec-reports")
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(out, "xml_data", "test_results_ENV1.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Execution Report disabled by using --no-exec-reports")
	assert.NotContains(t, string(data), "mismatch")
}

func TestProject(t *testing.T) {
	testdata, out := isolate(t)

	code, stdout, _ := runCLI(t, "project", filepath.Join(testdata, "project.yaml"), "-o", out, "--format", "json")
	assert.Equal(t, 1, code, "missing environment is abandoned")
	assert.Contains(t, stdout, `"type": "summary"`)

	for _, name := range []string{"coverage_results_Demo.xml", "test_results_GNU_Native_TS1_ENV1.xml"} {
		_, err := os.Stat(filepath.Join(out, "xml_data", name))
		assert.NoError(t, err, name)
	}
}

func TestUsageErrorsExit2(t *testing.T) {
	testdata, out := isolate(t)
	snapshot := filepath.Join(testdata, "env1.json")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"env", snapshot, "--bogus"}},
		{"missing snapshot argument", []string{"env"}},
		{"unknown command", []string{"frobnicate"}},
		{"invalid language", []string{"env", snapshot, "-o", out, "--language", "klingon"}},
		{"invalid format", []string{"env", snapshot, "-o", out, "--format", "xml"}},
		{"unreadable cbt dictionary", []string{"env", snapshot, "-o", out, "--cbt", filepath.Join(testdata, "absent.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 2, code)
			assert.True(t, strings.HasPrefix(stderr, "covreport: "), stderr)
		})
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yaml", "sub/c.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	got, err := expand([]string{
		filepath.Join(dir, "**", "*.yaml"),
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "literal.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.yaml"),
		filepath.Join(dir, "literal.yaml"),
	}, got)
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
