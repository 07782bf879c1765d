// Package cmd provides the CLI commands for treescout.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/treescout/treescout/internal/config"
	"github.com/treescout/treescout/internal/logging"
	"github.com/treescout/treescout/internal/profiling"
	"github.com/treescout/treescout/pkg/version"
)

// Profiling flags.
var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profiler     = profiling.NewProfiler()
	cpuCleanup   func()
	traceCleanup func()
)

// Debug logging flag.
var (
	debugMode      bool
	loggingCleanup func()
)

// configPath pins the configuration to a single file instead of the
// layered user/project lookup.
var configPath string

// NewRootCmd creates the root command for the treescout CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treescout",
		Short: "Walk directory trees with hierarchical ignore-rule resolution",
		Long: `treescout walks a directory tree the way an interactive file browser
sees it: every .gitignore file on the way down (plus the user's global
excludes file) is resolved hierarchically, scoped to repository
boundaries, so ignored paths are hidden.

Run 'treescout walk' in a repository to see its visible tree.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation walks the current directory with the
			// configured defaults.
			return walkAndRender(cmd, ".", walkOverrides{})
		},
	}

	cmd.SetVersionTemplate("treescout version {{.Version}}\n")

	// Profiling flags.
	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")

	// Debug logging flag.
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.treescout/logs/")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Use this config file instead of the layered lookup")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newWalkCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newVerbsCmd())
	cmd.AddCommand(newExecCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging starts CPU/trace profiling and debug logging if flags are set.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if debugMode {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Info("Debug logging enabled", slog.String("log_file", logging.DefaultLogPath()))
	}

	var err error
	if profileCPU != "" {
		cpuCleanup, err = profiler.StartCPU(profileCPU)
		if err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
	}
	if profileTrace != "" {
		traceCleanup, err = profiler.StartTrace(profileTrace)
		if err != nil {
			if cpuCleanup != nil {
				cpuCleanup()
			}
			return fmt.Errorf("failed to start trace: %w", err)
		}
	}
	return nil
}

// stopProfilingAndLogging stops profiling and logging, writes memory profile if requested.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	if cpuCleanup != nil {
		cpuCleanup()
		cpuCleanup = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if profileMem != "" {
		if err := profiler.WriteHeap(profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}
	if loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// loadConfig resolves the configuration in effect for dir, honoring the
// --config override.
func loadConfig(dir string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadForDir(dir)
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
