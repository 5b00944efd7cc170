// Package config resolves covreport settings from four layers and records
// where each value came from.
//
// A value set by a flag wins over COVREPORT_* environment variables (a local
// .env file is loaded into the environment first), which win over the YAML
// file, which wins over the built-in default. The YAML file is
// .covreport.yaml in the working directory, falling back to
// ~/.config/covreport/.covreport.yaml.
//
// # Environment Variables
//
//   - COVREPORT_OUTPUT_DIR: directory that receives xml_data/
//   - COVREPORT_LANGUAGE: english, japanese or chinese; selects the output encoding
//   - COVREPORT_ENCODING: explicit encoding name, overriding the language default
//   - COVREPORT_CBT_FILE: change-based testing dictionary (JSON)
//   - COVREPORT_VERBOSE, COVREPORT_FAILED_ONLY, COVREPORT_SKIP_CBT: booleans
//   - COVREPORT_EXEC_REPORTS: set to false to omit execution reports
//   - COVREPORT_FORMAT, COVREPORT_THEME: run summary presentation
//   - NO_COLOR: forces the mono theme
package config
