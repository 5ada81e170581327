package tui

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/jmylchreest/docshell/internal/config"
)

// CopyText copies text to the system clipboard. A configured clipboard
// command takes precedence over the detected one.
func CopyText(text string, cfg *config.Config) error {
	cmd := detectClipboardCommand(cfg)
	if cmd == "" {
		if clipboard.Unsupported {
			return fmt.Errorf("no clipboard command available")
		}
		return clipboard.WriteAll(text)
	}

	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return fmt.Errorf("invalid clipboard command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)

	if err := c.Run(); err != nil {
		return fmt.Errorf("clipboard command %q: %w", parts[0], err)
	}
	return nil
}

// detectClipboardCommand returns the configured clipboard command. Without
// one, Wayland sessions use wl-copy and everything else is left to the
// clipboard package.
func detectClipboardCommand(cfg *config.Config) string {
	if cfg != nil && cfg.Clipboard.Command != "" {
		return cfg.Clipboard.Command
	}

	if _, err := exec.LookPath("wl-copy"); err == nil {
		return "wl-copy"
	}

	return ""
}
