package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dkoosis/covreport/internal/charset"
)

// ErrInvalidConfig marks a resolved configuration that failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Source names where a resolved value came from.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Resolved holds the final configuration after applying all priority rules.
type Resolved struct {
	OutputDir        string
	Language         string
	Encoding         string
	CBTFile          string
	Verbose          bool
	FailedOnly       bool
	ExecutionReports bool
	SkipCBT          bool
	Format           string
	Theme            string

	// ConfigFile is the YAML file consulted, if any.
	ConfigFile string
	// Sources maps each key (as spelled in the YAML file) to its source.
	Sources map[string]string
}

// Resolve resolves configuration from all sources with explicit priority
// order: CLI flags, environment, config file, defaults. A .env file in the
// working directory is loaded first; it never overrides variables already
// set in the process environment.
func Resolve(cli CliFlags) (*Resolved, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	file, path, err := LoadFile()
	if err != nil {
		return nil, err
	}

	r := &Resolved{ConfigFile: path, Sources: make(map[string]string)}

	r.OutputDir = r.str("output_dir", cli.OutputDir, cli.OutputDirSet, "COVREPORT_OUTPUT_DIR", file.OutputDir, DefaultOutputDir)
	r.Language = r.str("language", cli.Language, cli.LanguageSet, "COVREPORT_LANGUAGE", file.Language, DefaultLanguage)
	r.Encoding = r.str("encoding", cli.Encoding, cli.EncodingSet, "COVREPORT_ENCODING", file.Encoding, "")
	r.CBTFile = r.str("cbt_file", cli.CBTFile, cli.CBTFileSet, "COVREPORT_CBT_FILE", file.CBTFile, "")
	r.Format = r.str("format", cli.Format, cli.FormatSet, "COVREPORT_FORMAT", file.Format, DefaultFormat)
	r.Theme = r.str("theme", cli.Theme, cli.ThemeSet, "COVREPORT_THEME", file.Theme, DefaultTheme)

	r.Verbose = r.boolean("verbose", cli.Verbose, cli.VerboseSet, "COVREPORT_VERBOSE", file.Verbose, false)
	r.FailedOnly = r.boolean("report_failed_only", cli.FailedOnly, cli.FailedOnlySet, "COVREPORT_FAILED_ONLY", file.FailedOnly, false)
	r.ExecutionReports = r.boolean("execution_reports", cli.ExecutionReports, cli.ExecutionReportsSet, "COVREPORT_EXEC_REPORTS", file.ExecutionReports, true)
	r.SkipCBT = r.boolean("skip_cbt", cli.SkipCBT, cli.SkipCBTSet, "COVREPORT_SKIP_CBT", file.SkipCBT, false)

	// NO_COLOR wins over anything but an explicit --theme.
	if !cli.ThemeSet && os.Getenv("NO_COLOR") != "" {
		r.Theme = "mono"
		r.Sources["theme"] = SourceEnv
	}

	if err := validateResolvedConfig(r); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return r, nil
}

func (r *Resolved) str(key, cli string, cliSet bool, env, file, def string) string {
	switch {
	case cliSet:
		r.Sources[key] = SourceCLI
		return cli
	case os.Getenv(env) != "":
		r.Sources[key] = SourceEnv
		return os.Getenv(env)
	case file != "":
		r.Sources[key] = SourceFile
		return file
	default:
		r.Sources[key] = SourceDefault
		return def
	}
}

func (r *Resolved) boolean(key string, cli, cliSet bool, env string, file *bool, def bool) bool {
	if cliSet {
		r.Sources[key] = SourceCLI
		return cli
	}
	if b := getEnvBool(env); b != nil {
		r.Sources[key] = SourceEnv
		return *b
	}
	if file != nil {
		r.Sources[key] = SourceFile
		return *file
	}
	r.Sources[key] = SourceDefault
	return def
}

// getEnvBool reads a boolean from the environment. Returns nil when unset
// or unparsable.
func getEnvBool(key string) *bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

var (
	validLanguages = charset.Languages()
	validFormats   = []string{"auto", "terminal", "llm", "json", "none"}
	validThemes    = []string{"default", "orca", "mono"}
)

// validateResolvedConfig validates the resolved configuration and returns errors for invalid states.
func validateResolvedConfig(cfg *Resolved) error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("%w: output_dir cannot be empty", ErrInvalidConfig)
	}
	if !slices.Contains(validLanguages, cfg.Language) {
		return fmt.Errorf("%w: language %q (must be: english, japanese, chinese)", ErrInvalidConfig, cfg.Language)
	}
	if !slices.Contains(validFormats, cfg.Format) {
		return fmt.Errorf("%w: format %q (must be: auto, terminal, llm, json, none)", ErrInvalidConfig, cfg.Format)
	}
	if !slices.Contains(validThemes, cfg.Theme) {
		return fmt.Errorf("%w: theme %q (must be: default, orca, mono)", ErrInvalidConfig, cfg.Theme)
	}
	return nil
}
