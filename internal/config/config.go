package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	OutputDir        string
	Language         string
	Encoding         string
	CBTFile          string
	Format           string
	Theme            string
	Verbose          bool
	FailedOnly       bool
	ExecutionReports bool
	SkipCBT          bool

	// Flags to track if they were explicitly set by the user
	OutputDirSet        bool
	LanguageSet         bool
	EncodingSet         bool
	CBTFileSet          bool
	FormatSet           bool
	ThemeSet            bool
	VerboseSet          bool
	FailedOnlySet       bool
	ExecutionReportsSet bool
	SkipCBTSet          bool
}

// FileConfig represents the settings read from .covreport.yaml. Pointer
// fields distinguish "unset" from a false or empty value.
type FileConfig struct {
	OutputDir        string `yaml:"output_dir"`
	Language         string `yaml:"language"`
	Encoding         string `yaml:"encoding"`
	CBTFile          string `yaml:"cbt_file"`
	Verbose          *bool  `yaml:"verbose"`
	FailedOnly       *bool  `yaml:"report_failed_only"`
	ExecutionReports *bool  `yaml:"execution_reports"`
	SkipCBT          *bool  `yaml:"skip_cbt"`
	Format           string `yaml:"format"`
	Theme            string `yaml:"theme"`
}

// Constants for default values.
const (
	DefaultOutputDir = "."
	DefaultLanguage  = "english"
	DefaultFormat    = "auto"
	DefaultTheme     = "default"
	fileName         = ".covreport.yaml"
)

// LoadFile reads the first config file found. It returns an empty
// FileConfig and no path when there is none.
func LoadFile() (*FileConfig, string, error) {
	path := getConfigPath()
	if path == "" {
		return &FileConfig{}, "", nil
	}
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// ReadFile parses one config file.
func ReadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// getConfigPath tries to find the .covreport.yaml configuration file.
// It checks the local directory first, then the user config directory.
func getConfigPath() string {
	if _, err := os.Stat(fileName); err == nil {
		return fileName
	}

	configHome, err := os.UserConfigDir()
	// An empty or root config dir is not suitable for a per-user file.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	userPath := filepath.Join(configHome, "covreport", fileName)
	if _, err := os.Stat(userPath); err == nil {
		return userPath
	}
	return ""
}
