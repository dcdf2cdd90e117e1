/*
Package commands implements the CLI command structure for loctor.
It provides the root counting command and the subcommands for remote
repositories and version information, with proper flag handling and
command coordination.
*/
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sonemaro/loctor/cmd/loctor/app"
	"github.com/sonemaro/loctor/internal/config"
	"github.com/sonemaro/loctor/pkg/logger"
	"github.com/sonemaro/loctor/pkg/output"
)

// Options holds command-line options that apply to all commands
type Options struct {
	Config     *config.Config
	verbose    int
	noProgress bool
	noColor    bool
}

// countOptions holds the flags shared by the local and remote count runs
type countOptions struct {
	*Options
	outputFormat string
	outputFile   string
	workers      int
	rateLimit    int
	bufferSize   int
	extensions   []string
	exclude      []string
	noIgnore     bool
	hidden       bool
}

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	opts := &Options{
		Config: &config.Config{},
	}
	co := &countOptions{
		Options: opts,
	}

	rootCmd := &cobra.Command{
		Use:   "loctor [flags] [path]",
		Short: "Count source lines of code",
		Long: `Loctor walks a directory tree and counts lines of code per file
extension, with concurrent file reading and table, JSON or YAML output.

Directories can be pruned by name at any depth, counting can be
restricted to a set of extensions, and the root .gitignore is respected
by default. Without a path argument the current directory is counted.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeCommand(cmd, co)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runCount(path, co)
		},
		SilenceUsage: true,
	}

	// Persistent flags apply to the root count and to `loctor remote`.
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v",
		"increase verbosity (can be used multiple times)")
	rootCmd.PersistentFlags().BoolVar(&opts.noProgress, "no-progress", false,
		"disable progress reporting")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false,
		"disable colored output")
	rootCmd.PersistentFlags().StringVarP(&co.outputFormat, "output", "o", "table",
		"output format: table|json|yaml")
	rootCmd.PersistentFlags().StringVarP(&co.outputFile, "file", "f", "",
		"write output to file instead of stdout")
	rootCmd.PersistentFlags().IntVarP(&co.workers, "workers", "w", 0,
		"number of concurrent file readers (default: number of CPUs)")
	rootCmd.PersistentFlags().IntVarP(&co.rateLimit, "rate-limit", "r", 0,
		"rate limit for file reads (ops/sec, 0 = unlimited)")
	rootCmd.PersistentFlags().IntVarP(&co.bufferSize, "buffer-size", "b",
		config.DefaultBufferSize, "buffer size for file reading")
	rootCmd.PersistentFlags().StringSliceVarP(&co.extensions, "ext", "e", nil,
		"count only the listed extensions (can be specified multiple times)")
	rootCmd.PersistentFlags().StringSliceVarP(&co.exclude, "exclude", "x", nil,
		"directory names to skip at any depth (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolVar(&co.noIgnore, "no-ignore", false,
		"do not consult the root .gitignore")
	rootCmd.PersistentFlags().BoolVarP(&co.hidden, "hidden", "H", false,
		"include hidden files and directories")

	rootCmd.AddCommand(
		newRemoteCommand(co),
		newVersionCommand(opts),
	)

	return rootCmd
}

// initializeCommand performs common initialization for all commands
func initializeCommand(cmd *cobra.Command, co *countOptions) error {
	log := logger.NewLogger(logger.Config{
		Verbosity: co.verbose,
	})

	log.WithFields(logger.Fields{
		"verbosity": co.verbose,
		"command":   cmd.Name(),
	}).Debug("Initializing command")

	// Environment provides the baseline, flags win where set.
	cfg, err := config.Load()
	if err != nil {
		log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to load configuration")
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if co.verbose > 0 {
		cfg.Verbose = co.verbose
	}
	cfg.NoProgress = cfg.NoProgress || co.noProgress
	cfg.NoColor = cfg.NoColor || co.noColor

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = co.outputFormat
	}
	if flags.Changed("file") {
		cfg.OutputFile = co.outputFile
	}
	if flags.Changed("workers") {
		cfg.Workers = co.workers
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = co.rateLimit
	}
	if flags.Changed("buffer-size") {
		cfg.BufferSize = co.bufferSize
	}
	if flags.Changed("ext") {
		cfg.Extensions = co.extensions
	}
	if flags.Changed("exclude") {
		cfg.Exclude = co.exclude
	}
	if flags.Changed("no-ignore") {
		cfg.NoIgnore = co.noIgnore
	}
	if flags.Changed("hidden") {
		cfg.Hidden = co.hidden
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	co.Config = &cfg

	return nil
}

// runCount executes a counting run over a local tree
func runCount(path string, co *countOptions) error {
	cfg := co.Config

	application := app.New(cfg)
	defer application.Shutdown()

	return application.Run(path, &app.CountOptions{
		Format:           output.Format(cfg.Output),
		OutputPath:       cfg.OutputFile,
		Exclude:          cfg.Exclude,
		Extensions:       cfg.Extensions,
		RespectGitignore: !cfg.NoIgnore,
		IncludeHidden:    cfg.Hidden,
	})
}
