package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dkoosis/covreport/internal/charset"
	"github.com/dkoosis/covreport/internal/config"
	"github.com/dkoosis/covreport/internal/diag"
	"github.com/dkoosis/covreport/internal/generate"
	"github.com/dkoosis/covreport/internal/version"
	"github.com/dkoosis/covreport/pkg/cbt"
	"github.com/dkoosis/covreport/pkg/mapper"
	"github.com/dkoosis/covreport/pkg/provider"
)

// app carries what the commands share. code is the exit code a command
// settles on when it runs to completion.
type app struct {
	stdout io.Writer
	stderr io.Writer
	code   int

	flags flagValues
	cfg   *config.Resolved
	log   *diag.Logger
	now   func() time.Time
}

type flagValues struct {
	outputDir     string
	language      string
	encoding      string
	cbtFile       string
	format        string
	theme         string
	verbose       bool
	failedOnly    bool
	noExecReports bool
	skipCBT       bool
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "covreport",
		Short:         "Write JUnit and Emma XML reports from test environment snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.outputDir, "output-dir", "o", config.DefaultOutputDir, "directory that receives xml_data/")
	pf.StringVar(&a.flags.language, "language", config.DefaultLanguage, "report language: english, japanese, chinese")
	pf.StringVar(&a.flags.encoding, "encoding", "", "output encoding name, overriding the language default")
	pf.StringVar(&a.flags.cbtFile, "cbt", "", "change-based testing dictionary (JSON)")
	pf.StringVar(&a.flags.format, "format", config.DefaultFormat, "summary format: auto, terminal, llm, json, none")
	pf.StringVar(&a.flags.theme, "theme", config.DefaultTheme, "summary theme: default, orca, mono")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log coverage types, build hashes and skipped test cases")
	pf.BoolVar(&a.flags.failedOnly, "failed-only", false, "only write records for failing test cases")
	pf.BoolVar(&a.flags.noExecReports, "no-exec-reports", false, "omit execution reports from test records")
	pf.BoolVar(&a.flags.skipCBT, "skip-cbt", false, "ignore change-based testing data")

	root.AddCommand(a.envCmd(), a.projectCmd(), a.versionCmd())
	return root
}

func (a *app) envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env <snapshot|glob>...",
		Short: "Write reports for one or more environment snapshots",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.setup(cmd.Flags())
			if err != nil {
				return err
			}
			paths, err := expand(args)
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}

			var results []generate.EnvResult
			for _, path := range paths {
				env, err := provider.Load(path)
				if err != nil {
					err = fmt.Errorf("%s: %w: %w", path, generate.ErrUnknownEnvironment, err)
					a.log.Abandoned(err)
					results = append(results, generate.EnvResult{Name: path, Err: err})
					continue
				}
				results = append(results, gen.Environment(env))
			}

			for _, r := range results {
				if r.Err != nil {
					a.code = 1
				}
			}
			a.renderRun(mapper.Run{Environments: summarize(results)})
			return nil
		},
	}
}

func (a *app) projectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project <project-snapshot>",
		Short: "Write per-environment and project-wide reports for a project",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.setup(cmd.Flags())
			if err != nil {
				return err
			}
			p, err := provider.LoadProject(args[0])
			if err != nil {
				a.code = 1
				return err
			}

			res := gen.Project(p)
			if res.Abandoned() > 0 {
				a.code = 1
			}
			a.renderRun(mapper.Run{
				Project:      res.Name,
				Coverage:     res.Coverage,
				Environments: summarize(res.Environments),
			})
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return nil
	}
}

// cliFlags records which flags the user set so configuration resolution
// can tell an explicit value from a default.
func (a *app) cliFlags(fs *pflag.FlagSet) config.CliFlags {
	f := a.flags
	return config.CliFlags{
		OutputDir:        f.outputDir,
		Language:         f.language,
		Encoding:         f.encoding,
		CBTFile:          f.cbtFile,
		Format:           f.format,
		Theme:            f.theme,
		Verbose:          f.verbose,
		FailedOnly:       f.failedOnly,
		ExecutionReports: !f.noExecReports,
		SkipCBT:          f.skipCBT,

		OutputDirSet:        fs.Changed("output-dir"),
		LanguageSet:         fs.Changed("language"),
		EncodingSet:         fs.Changed("encoding"),
		CBTFileSet:          fs.Changed("cbt"),
		FormatSet:           fs.Changed("format"),
		ThemeSet:            fs.Changed("theme"),
		VerboseSet:          fs.Changed("verbose"),
		FailedOnlySet:       fs.Changed("failed-only"),
		ExecutionReportsSet: fs.Changed("no-exec-reports"),
		SkipCBTSet:          fs.Changed("skip-cbt"),
	}
}

// setup resolves configuration and builds the generator every report
// command runs with.
func (a *app) setup(fs *pflag.FlagSet) (*generate.Generator, error) {
	cfg, err := config.Resolve(a.cliFlags(fs))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	a.cfg = cfg
	a.log = diag.New(a.stderr, cfg.Verbose)
	if cfg.ConfigFile != "" {
		a.log.Debug().Str("file", cfg.ConfigFile).Msg("config file")
	}
	for key, src := range cfg.Sources {
		a.log.Debug().Str("key", key).Str("source", src).Msg("config")
	}

	cs, err := charset.ForLanguage(cfg.Language)
	if err == nil && cfg.Encoding != "" {
		cs, err = charset.Lookup(cfg.Encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	var dict cbt.Dictionary
	if cfg.CBTFile != "" && !cfg.SkipCBT {
		dict, err = cbt.ReadFile(cfg.CBTFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		a.log.Debug().Str("file", cfg.CBTFile).Int("builds", len(dict)).Msg("change-based testing dictionary")
	}

	return generate.New(generate.Options{
		OutputDir:        cfg.OutputDir,
		Charset:          cs,
		CBT:              dict,
		SkipCBT:          cfg.SkipCBT,
		FailedOnly:       cfg.FailedOnly,
		ExecutionReports: cfg.ExecutionReports,
		Now:              a.now,
		Log:              a.log,
	}), nil
}

// expand resolves each argument as a doublestar glob. Arguments that match
// nothing are kept as given so loading reports them.
func expand(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}
