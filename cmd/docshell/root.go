// Package main provides the CLI entrypoint for docshell.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/docshell/internal/config"
	"github.com/jmylchreest/docshell/internal/diagnostics"
	"github.com/jmylchreest/docshell/internal/docs"
	"github.com/jmylchreest/docshell/internal/store"
	"github.com/jmylchreest/docshell/internal/tui"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		stateFile  string
	}
	logger *slog.Logger

	// ring collects warnings and errors for diagnostics reports
	ring *diagnostics.Ring

	// stateStore holds the persisted theme preference
	stateStore *store.Storage
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docshell [file.md]",
	Short: "Terminal documentation shell",
	Long: `docshell is a terminal documentation browser.

It shows a Markdown document beside a collapsible navigation sidebar with
scroll spy, a user menu, a theme popup and rail tooltips. Panels are
positioned so they always stay inside the terminal.

Running docshell without a file opens the bundled guide.

Key bindings:
  j/k, ↑/↓    Move through the navigation
  enter       Jump to the selected section
  [ / ]       Collapse / expand the sidebar
  m           Toggle the navigation menu on narrow terminals
  t           Cycle the theme
  u           Open the user menu
  /           Search sections
  D           Show diagnostics
  ?           Show help
  q           Quit`,
	Args:    cobra.MaximumNArgs(1),
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Setup logging
		setupLogger(cfg.Diagnostics.Capacity)

		if err := config.EnsureDataDir(); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		statePath := globalOpts.stateFile
		if statePath == "" {
			statePath = config.StatePath()
		}
		stateStore = store.NewStorage(statePath, logger)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if stateStore != nil {
			return stateStore.Close()
		}
		return nil
	},
	// Default to the TUI when no subcommand is provided
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/docshell/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.stateFile, "state-file", "",
		"Path to state file (default: ~/.local/share/docshell/state.json)")
}

// setupLogger configures the global slog logger. Warnings and errors are
// also kept in the diagnostics ring.
func setupLogger(capacity int) {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	ring = diagnostics.NewRing(capacity)

	// Log to stderr so stdout is clean for output
	handler := diagnostics.NewHandler(slog.NewTextHandler(os.Stderr, opts), ring, slog.LevelWarn)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

func runTUI(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	doc, err := docs.Load(path)
	if err != nil {
		return err
	}

	// Quiet stderr while the alternate screen is up; the ring still
	// captures warnings for the diagnostics view.
	if !globalOpts.verbose {
		quiet := diagnostics.NewHandler(nil, ring, slog.LevelWarn)
		logger = slog.New(quiet)
		slog.SetDefault(logger)
	}

	return tui.Run(cmd.Context(), tui.RunOptions{
		Config:     cfg,
		Document:   doc,
		Storage:    stateStore,
		Ring:       ring,
		Version:    version,
		Logger:     logger,
		WatchState: true,
	})
}
