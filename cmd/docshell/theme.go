package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/docshell/internal/config"
	"github.com/jmylchreest/docshell/internal/dbus"
	"github.com/jmylchreest/docshell/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the persisted theme",
	Long: `Show or change the theme shared by every docshell instance.

The selection is stored in the state file; running instances pick up the
change immediately. Clearing the selection falls back to the desktop
colour scheme (when theme.follow_system is set) and then to theme.default.`,
	Args: cobra.NoArgs,
	RunE: runThemeGet,
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the active theme",
	Args:  cobra.NoArgs,
	RunE:  runThemeGet,
}

var themeSetCmd = &cobra.Command{
	Use:       "set NAME",
	Short:     "Select a theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: theme.Names,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newThemeManager(cmd.Context())
		if !m.Set(args[0]) {
			return fmt.Errorf("unknown theme %q (want one of %s)", args[0], strings.Join(theme.Names, ", "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), m.Current())
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch to the next theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newThemeManager(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), m.Toggle())
		return nil
	},
}

var themeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the selected theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newThemeManager(cmd.Context())
		m.Clear()
		return nil
	},
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current := newThemeManager(cmd.Context()).Current()
		out := cmd.OutOrStdout()
		for _, info := range theme.ListAvailable(config.ThemesDir()) {
			marker := " "
			if info.Name == current {
				marker = "*"
			}
			source := "bundled"
			if info.Path != "" {
				source = info.Path
			}
			fmt.Fprintf(out, "%s %-14s %-15s %s\n", marker, info.Name, info.DisplayName, source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeGetCmd, themeSetCmd, themeToggleCmd, themeClearCmd, themeListCmd)
}

func runThemeGet(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), newThemeManager(cmd.Context()).Current())
	return nil
}

// newThemeManager resolves the current theme against the state file.
func newThemeManager(ctx context.Context) *theme.Manager {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	m := theme.NewManager(stateStore, config.ThemesDir(), logger)
	var system theme.SystemSchemeFunc
	if cfg.Theme.FollowSystem {
		system = dbus.SystemColorScheme
	}
	m.Init(ctx, cfg.Theme, system)
	return m
}
