package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/docshell/internal/config"
	"github.com/jmylchreest/docshell/internal/diagnostics"
	"github.com/jmylchreest/docshell/internal/tui"
)

var diagOpts struct {
	format string
	copy   bool
}

var diagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Print a diagnostics report",
	Long: `Print a diagnostics report with the version, theme, terminal and
viewport, followed by any warnings logged while starting up.

Use --copy to put the report on the clipboard instead.`,
	Args: cobra.NoArgs,
	RunE: runDiag,
}

func init() {
	rootCmd.AddCommand(diagCmd)

	diagCmd.Flags().StringVarP(&diagOpts.format, "format", "o", diagnostics.FormatText,
		"Output format (text, json, yaml)")
	diagCmd.Flags().BoolVar(&diagOpts.copy, "copy", false,
		"Copy the report to the clipboard")
}

func runDiag(cmd *cobra.Command, args []string) error {
	if !diagnostics.ValidFormat(diagOpts.format) {
		return fmt.Errorf("unknown format %q", diagOpts.format)
	}

	themeName := newThemeManager(cmd.Context()).Current()

	var viewport diagnostics.Viewport
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		viewport = diagnostics.Viewport{Width: w, Height: h}
	} else {
		logger.Debug("terminal size unavailable", "error", err)
	}

	configPath := globalOpts.configPath
	if configPath == "" {
		configPath = config.ConfigPath()
	}
	ring.Log("diag", "report requested", map[string]any{
		"config": configPath,
		"state":  stateStore.Path(),
	})

	report := diagnostics.NewReport(version, themeName, os.Getenv("TERM"), viewport, ring)

	if !diagOpts.copy {
		return report.Render(cmd.OutOrStdout(), diagOpts.format)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, diagOpts.format); err != nil {
		return err
	}
	if err := tui.CopyText(buf.String(), cfg); err != nil {
		return fmt.Errorf("failed to copy report: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Diagnostics copied to clipboard")
	return nil
}
