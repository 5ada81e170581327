// Package tui provides the BubbleTea-based terminal user interface.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/docshell/internal/announce"
	"github.com/jmylchreest/docshell/internal/config"
	"github.com/jmylchreest/docshell/internal/diagnostics"
	"github.com/jmylchreest/docshell/internal/docs"
	"github.com/jmylchreest/docshell/internal/layout"
	"github.com/jmylchreest/docshell/internal/panel"
	"github.com/jmylchreest/docshell/internal/scrollspy"
	"github.com/jmylchreest/docshell/internal/store"
	"github.com/jmylchreest/docshell/internal/theme"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeHelp
	ModeDiagnostics
)

// Options configures the TUI model.
type Options struct {
	Config   *config.Config
	Document *docs.Document
	Themes   *theme.Manager

	Store     *store.Storage      // Theme changes from other instances; optional
	Palettes  *theme.Watcher      // Follows the active theme when set
	Announcer *announce.Announcer // Created from Config when nil
	Ring      *diagnostics.Ring

	Version  string
	User     string
	Terminal string

	Scheduler panel.Scheduler
	Logger    *slog.Logger
}

// Model is the main TUI model.
type Model struct {
	cfg    *config.Config
	doc    *docs.Document
	logger *slog.Logger

	// Current mode
	mode Mode

	// Shell state
	shell     *layout.Shell
	spy       *scrollspy.Spy
	themes    *theme.Manager
	palettes  *theme.Watcher
	announcer *announce.Announcer
	ring      *diagnostics.Ring
	renderer  *docs.Renderer
	look      *styles

	// Floating panels
	frame       *frame
	account     *panel.Controller
	accountView *overlay
	accountMenu *panel.Menu
	themePopup  *panel.Controller
	themeView   *overlay
	themeMenu   *panel.Menu
	tooltip     *panel.Controller
	tooltipView *overlay

	// Components
	viewport    viewport.Model
	report      viewport.Model
	searchInput textinput.Model
	help        help.Model

	// Navigation
	nav        []navItem
	filter     []int
	filtering  bool
	cursor     int
	navOffset  int
	sections   []scrollspy.Section
	reportText string

	width  int
	height int
	ready  bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool

	version  string
	user     string
	terminal string

	themeEvents <-chan theme.ChangeEvent
	storeEvents <-chan store.ChangeEvent
}

// New creates a new TUI model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = panel.TimerScheduler{}
	}
	doc := opts.Document
	if doc == nil {
		doc = docs.Parse("", nil)
	}
	themes := opts.Themes
	if themes == nil {
		themes = theme.NewManager(store.NewStorage("", logger), "", logger)
	}
	announcer := opts.Announcer
	if announcer == nil {
		announcer = announce.New(announce.Options{
			Delay:     cfg.Announce.Delay.Duration(),
			Scheduler: sched,
			Logger:    logger,
		})
	}
	ring := opts.Ring
	if ring == nil {
		ring = diagnostics.NewRing(cfg.Diagnostics.Capacity)
	}

	palette, err := themes.Palette()
	if err != nil {
		logger.Warn("failed to load palette", "theme", themes.Current(), "error", err)
	}
	look := newStyles(palette)
	glamourStyle := ""
	if palette != nil {
		glamourStyle = palette.Glamour
	}

	nav := navItems(doc)
	links := make([]scrollspy.Link, len(nav))
	for i, item := range nav {
		links[i] = scrollspy.Link{Target: item.target, Label: item.title, Depth: item.depth}
	}

	shell := layout.New(layout.Options{
		Collapsed:       cfg.Sidebar.Collapsed,
		Breakpoint:      cfg.Sidebar.Breakpoint,
		ScrollIdleDelay: cfg.Scroll.IdleDelay.Duration(),
		Announce:        announcer.Polite,
		Scheduler:       sched,
		Logger:          logger,
	})

	searchInput := textinput.New()
	searchInput.Prompt = "/"
	searchInput.Placeholder = "search"
	searchInput.CharLimit = 64

	m := Model{
		cfg:         cfg,
		doc:         doc,
		logger:      logger,
		mode:        ModeBrowse,
		shell:       shell,
		spy:         scrollspy.New(links, scrollspy.Options{ClickLock: cfg.ScrollSpy.ClickLock.Duration(), Band: cfg.ScrollSpy.Band, Scheduler: sched, Logger: logger}),
		themes:      themes,
		palettes:    opts.Palettes,
		announcer:   announcer,
		ring:        ring,
		renderer:    docs.NewRenderer(glamourStyle, 0),
		look:        &look,
		frame:       newFrame(),
		viewport:    viewport.New(0, 0),
		report:      viewport.New(0, 0),
		searchInput: searchInput,
		help:        help.New(),
		nav:         nav,
		keys:        DefaultKeyMap(),
		version:     opts.Version,
		user:        opts.User,
		terminal:    opts.Terminal,
		themeEvents: themes.Subscribe(),
	}
	m.viewport.MouseWheelEnabled = false
	m.help.ShowAll = true

	m.setupPanels(sched)
	m.themeMenu.SetCurrent(themes.Current())

	if opts.Store != nil {
		m.storeEvents = opts.Store.Subscribe()
	}

	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(m.windowTitle()),
		waitForTheme(m.themeEvents),
		waitForStore(m.storeEvents),
	)
}

func (m Model) windowTitle() string {
	if m.doc.Title == "" {
		return "docshell"
	}
	return m.doc.Title + " - docshell"
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

type themeEventMsg theme.ChangeEvent

type storeEventMsg store.ChangeEvent

type paletteMsg struct {
	palette *theme.Palette
}

// waitForTheme waits for the next theme change.
func waitForTheme(ch <-chan theme.ChangeEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return themeEventMsg(ev)
	}
}

// waitForStore waits for the next change of the shared state file.
func waitForStore(ch <-chan store.ChangeEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return storeEventMsg(ev)
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.relayout()
		return m, nil

	case taskMsg:
		msg.fn()
		return m, nil

	case themeEventMsg:
		m.applyTheme(theme.ChangeEvent(msg))
		return m, waitForTheme(m.themeEvents)

	case storeEventMsg:
		m.themes.HandleStoreEvent(store.ChangeEvent(msg))
		return m, waitForStore(m.storeEvents)

	case paletteMsg:
		if msg.palette != nil && msg.palette.Name == m.themes.Current() {
			m.logger.Info("palette reloaded", "theme", msg.palette.Name)
			m.applyPalette(msg.palette)
		}
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.ring.Log("clipboard", "copy failed", map[string]any{"error": msg.err.Error()})
			return m, func() tea.Msg {
				return statusMsg{text: "Copy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, func() tea.Msg {
			return statusMsg{text: "Copied to clipboard", isErr: false}
		}
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeHelp:
		return m.handleHelpKey(msg)
	case ModeDiagnostics:
		return m.handleDiagnosticsKey(msg)
	}

	// Open popups capture the keyboard.
	if m.account.IsOpen() {
		cmd := m.handleMenuKey(msg, m.account, m.accountMenu, m.activateAccountItem)
		return m, cmd
	}
	if m.themePopup.IsOpen() {
		cmd := m.handleMenuKey(msg, m.themePopup, m.themeMenu, m.activateThemeItem)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.hideTooltip()
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.hideTooltip()
		if m.shell.MenuOpen() {
			m.shell.CloseMenu()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if i, ok := m.cursorItem(); ok {
			m.jumpTo(i)
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfPageUp()
		m.syncScroll()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfPageDown()
		m.syncScroll()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		m.syncScroll()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		m.syncScroll()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.hideTooltip()
		m.mode = ModeSearch
		m.searchInput.SetValue("")
		m.applyFilter()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Collapse):
		m.shell.CollapseSidebar()
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Expand):
		m.shell.ExpandSidebar()
		m.relayout()
		return m, nil

	case key.Matches(msg, m.keys.Menu):
		if m.shell.Mobile(m.width) {
			m.shell.ToggleMenu()
			m.relayout()
		}
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.themes.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Account):
		m.hideTooltip()
		m.account.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.Diagnostics):
		m.hideTooltip()
		m.openDiagnostics()
		return m, nil
	}

	return m, nil
}

// handleMenuKey drives the keyboard inside an open popup menu.
func (m *Model) handleMenuKey(msg tea.KeyMsg, c *panel.Controller, menu *panel.Menu, activate func(string) tea.Cmd) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		c.Escape()
	case key.Matches(msg, m.keys.Up):
		menu.Prev()
	case key.Matches(msg, m.keys.Down):
		menu.Next()
	case key.Matches(msg, m.keys.Enter):
		item, ok := menu.Focused()
		if !ok {
			return nil
		}
		c.Close()
		return activate(item.ID)
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.applyFilter()
		return m, nil

	case tea.KeyEnter:
		if i, ok := m.cursorItem(); ok {
			m.jumpTo(i)
		}
		m.mode = ModeBrowse
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.applyFilter()
		return m, nil

	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil

	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Back):
		m.mode = ModeBrowse
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleDiagnosticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Diagnostics), key.Matches(msg, m.keys.Back):
		m.mode = ModeBrowse
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyToClipboard(m.reportText)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

// activateAccountItem runs an entry of the account menu.
func (m *Model) activateAccountItem(id string) tea.Cmd {
	switch id {
	case accountSidebar:
		m.shell.ToggleSidebar()
		m.relayout()
	case accountDiagnostics:
		m.openDiagnostics()
	case accountCopy:
		return m.copyToClipboard(m.buildReport().Text())
	case accountHelp:
		m.mode = ModeHelp
	case accountQuit:
		return tea.Quit
	}
	return nil
}

// activateThemeItem selects a theme from the theme popup.
func (m *Model) activateThemeItem(id string) tea.Cmd {
	m.themes.Set(id)
	return nil
}

func (m *Model) openDiagnostics() {
	m.reportText = m.buildReport().Text()
	m.report.SetContent(m.reportText)
	m.report.GotoTop()
	m.mode = ModeDiagnostics
}

func (m Model) buildReport() diagnostics.Report {
	return diagnostics.NewReport(
		m.version,
		m.themes.Current(),
		m.terminal,
		diagnostics.Viewport{Width: m.width, Height: m.height},
		m.ring,
	)
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		err := CopyText(text, cfg)
		return copyResultMsg{err: err}
	}
}

// applyTheme reacts to a theme change from any source.
func (m *Model) applyTheme(ev theme.ChangeEvent) {
	p, err := m.themes.Palette()
	if err != nil {
		m.logger.Warn("failed to load palette", "theme", ev.Name, "error", err)
	}
	m.applyPalette(p)
	if m.palettes != nil && p != nil {
		m.palettes.UpdatePalette(p)
	}
	m.themeMenu.SetCurrent(ev.Name)

	msg := "Theme changed to " + theme.DisplayName(ev.Name)
	m.announcer.Polite(msg)
	m.ring.Log("theme", msg, map[string]any{
		"theme":    ev.Name,
		"previous": ev.Previous,
		"source":   ev.Source,
	})
}

func (m *Model) applyPalette(p *theme.Palette) {
	*m.look = newStyles(p)
	if p != nil {
		m.renderer.SetStyle(p.Glamour)
	}
	if m.ready {
		m.renderContent()
	}
	m.repositionPanels()
}
