package tui

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/docshell/internal/announce"
	"github.com/jmylchreest/docshell/internal/audio"
	"github.com/jmylchreest/docshell/internal/config"
	"github.com/jmylchreest/docshell/internal/dbus"
	"github.com/jmylchreest/docshell/internal/diagnostics"
	"github.com/jmylchreest/docshell/internal/docs"
	"github.com/jmylchreest/docshell/internal/store"
	"github.com/jmylchreest/docshell/internal/theme"
)

// RunOptions configures the TUI.
type RunOptions struct {
	Config   *config.Config
	Document *docs.Document
	Storage  *store.Storage // Opened at config.StatePath when nil
	Ring     *diagnostics.Ring
	Version  string
	Logger   *slog.Logger

	// WatchState follows rewrites of the state file by other instances.
	WatchState bool
}

// Run starts the TUI and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	storage := opts.Storage
	if storage == nil {
		storage = store.NewStorage(config.StatePath(), logger)
		defer storage.Close()
	}

	sched := &loopScheduler{}

	themes := theme.NewManager(storage, config.ThemesDir(), logger)
	var system theme.SystemSchemeFunc
	if cfg.Theme.FollowSystem {
		system = dbus.SystemColorScheme
	}
	themes.Init(ctx, cfg.Theme, system)

	announcer := announce.New(announce.Options{
		Delay:     cfg.Announce.Delay.Duration(),
		Scheduler: sched,
		Logger:    logger,
	})
	if cfg.Announce.Earcons {
		sounds := audio.NewManager(cfg, logger)
		if err := sounds.Start(ctx); err != nil {
			logger.Warn("failed to start earcons", "error", err)
		} else {
			defer sounds.Stop()
			announcer.AddSink(announce.EarconSink(sounds))
		}
	}
	if cfg.Announce.Desktop {
		notifier, err := dbus.NewNotifier(logger)
		if err != nil {
			logger.Warn("desktop announcements unavailable", "error", err)
		} else {
			announcer.AddSink(announce.DesktopSink(notifier))
		}
	}
	defer announcer.Close()

	var palettes *theme.Watcher
	if cfg.Theme.Watch {
		p, err := themes.Palette()
		if err != nil {
			logger.Warn("palette watching disabled", "error", err)
		} else {
			palettes = theme.NewWatcher(p, themes.PaletteDir(), logger)
		}
	}

	var stateEvents *store.Storage
	if opts.WatchState {
		stateEvents = storage
	}

	m := New(Options{
		Config:    cfg,
		Document:  opts.Document,
		Themes:    themes,
		Store:     stateEvents,
		Palettes:  palettes,
		Announcer: announcer,
		Ring:      opts.Ring,
		Version:   opts.Version,
		User:      os.Getenv("USER"),
		Terminal:  os.Getenv("TERM"),
		Scheduler: sched,
		Logger:    logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	sched.bind(p.Send)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	if opts.WatchState && storage.Path() != "" {
		watcher := store.NewStateWatcher(storage, logger)
		g.Go(func() error {
			if err := watcher.Run(gctx); err != nil {
				logger.Warn("state watcher stopped", "error", err)
			}
			return nil
		})
	}

	if palettes != nil {
		palettes.SetChangeCallback(func(pal *theme.Palette) {
			p.Send(paletteMsg{palette: pal})
		})
		if err := palettes.Start(gctx); err != nil {
			logger.Warn("failed to start palette watcher", "error", err)
		} else {
			g.Go(func() error {
				<-gctx.Done()
				palettes.Stop()
				return nil
			})
		}
	}

	return g.Wait()
}
