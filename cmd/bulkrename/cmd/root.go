// Package cmd implements the bulkrename command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"bulkrename/internal/config"
	"bulkrename/internal/logging"
	"bulkrename/internal/naming"
	"bulkrename/internal/renamer"
	"bulkrename/internal/report"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// errReported marks failures that were already written to the log.
var errReported = errors.New("run aborted")

type options struct {
	source     string
	pattern    string
	dryRun     bool
	verbose    bool
	contiguous bool
	configPath string
	logFile    string
}

// NewRootCommand builds the bulkrename command writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "bulkrename [folder] [pattern]",
		Short: "Rename every file in a folder with a numbered pattern",
		Long: `bulkrename renames the regular files of a folder to a common name
followed by a zero-padded serial number, keeping each file's extension.

The pattern is either a prefix ("photo" gives photo_001.jpg) or a template
containing {index} ("scan{index}" gives scan_001.pdf). Entries are numbered in
byte-wise name order; sub-folders take a number but are never renamed unless
--contiguous is set.

Examples:
  bulkrename --source ./downloads --rename-pattern file_{index}
  bulkrename ./photos holiday --dry-run`,
		Args:          cobra.MaximumNArgs(2),
		Version:       Version,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolveArgs(args); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return run(cmd, opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&opts.source, "source", "s", "", "source directory containing files to rename")
	flags.StringVarP(&opts.pattern, "rename-pattern", "p", "", "pattern for renaming files (e.g. file_{index} or a plain prefix)")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "simulate renaming without making any changes")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at DEBUG level")
	flags.BoolVar(&opts.contiguous, "contiguous", false, "number regular files only, so sub-folders leave no gaps")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file (default "+config.DefaultPath+" if present)")
	flags.StringVar(&opts.logFile, "log-file", "", "log file path (overrides the configuration)")

	return cmd
}

// resolveArgs merges positional arguments into the flag values.
func (o *options) resolveArgs(args []string) error {
	if len(args) > 0 {
		if o.source != "" && o.source != args[0] {
			return fmt.Errorf("%s: folder given both as --source and as an argument", renamer.InvalidArguments)
		}
		o.source = args[0]
	}
	if len(args) > 1 {
		if o.pattern != "" && o.pattern != args[1] {
			return fmt.Errorf("%s: pattern given both as --rename-pattern and as an argument", renamer.InvalidArguments)
		}
		o.pattern = args[1]
	}
	if o.source == "" {
		return fmt.Errorf("%s: required flag \"source\" not set", renamer.InvalidArguments)
	}
	return nil
}

func loadConfig(path string) (*config.Configuration, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(config.DefaultPath)
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	pattern := opts.pattern
	if pattern == "" {
		pattern = cfg.Rename.Pattern
	}
	if pattern == "" {
		cmd.SilenceUsage = false
		return fmt.Errorf("%s: required flag \"rename-pattern\" not set", renamer.InvalidArguments)
	}
	if err := naming.ValidatePattern(pattern); err != nil {
		return fmt.Errorf("%s: %w", renamer.InvalidArguments, err)
	}

	dryRun := cfg.Rename.DryRun
	if cmd.Flags().Changed("dry-run") {
		dryRun = opts.dryRun
	}
	contiguous := cfg.Rename.Contiguous
	if cmd.Flags().Changed("contiguous") {
		contiguous = opts.contiguous
	}

	logOpts, err := cfg.LoggingOptions()
	if err != nil {
		return err
	}
	if opts.verbose {
		logOpts.Level = logging.LevelDebug
	}
	if opts.logFile != "" {
		logOpts.File = opts.logFile
	}
	logOpts.Console = cmd.OutOrStdout()
	logOpts.Errors = cmd.ErrOrStderr()

	log, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Debug("CLI arguments parsed successfully")
	log.Info("Source: %s, Pattern: %s, Dry-run: %t", opts.source, pattern, dryRun)

	engine := renamer.New(afero.NewOsFs(), log, renamer.WithReporter(report.New(log)))
	res := engine.Run(renamer.Request{
		Folder:     opts.source,
		Pattern:    pattern,
		DryRun:     dryRun,
		Contiguous: contiguous,
	})

	if res.Fatal() != nil {
		return errReported
	}
	return nil
}

// Execute runs the root command against os.Args and returns the process exit code.
func Execute() int {
	return ExecuteArgs(os.Args[1:], os.Stdout, os.Stderr)
}

// ExecuteArgs runs the root command with args and returns the process exit code.
func ExecuteArgs(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
