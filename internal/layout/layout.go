// Package layout tracks the state of the application shell: the sidebar,
// the narrow-screen menu and the scroll position of the content pane.
package layout

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/docshell/internal/panel"
)

// DefaultScrollIdleDelay is how long after the last scroll the shell stops
// reporting that it is scrolling.
const DefaultScrollIdleDelay = 150 * time.Millisecond

// Announcements made on state changes.
const (
	MsgSidebarCollapsed = "Sidebar collapsed"
	MsgSidebarExpanded  = "Sidebar expanded"
	MsgMenuOpened       = "Menu opened"
	MsgMenuClosed       = "Menu closed"
)

// Options configures a Shell.
type Options struct {
	Collapsed  bool // Initial sidebar state
	Breakpoint int  // Widths at or below this force the collapsed layout

	ScrollIdleDelay time.Duration

	// Announce receives a message after every sidebar or menu toggle.
	Announce func(msg string)

	Scheduler panel.Scheduler
	Logger    *slog.Logger
}

// Shell holds the layout state. It is safe for concurrent use.
type Shell struct {
	mu     sync.Mutex
	opts   Options
	logger *slog.Logger

	collapsed bool
	menuOpen  bool

	offset    int
	scrolled  bool
	scrolling bool
	idleTask  panel.Task
	idleGen   uint64

	listeners []func()
}

// New creates a Shell.
func New(opts Options) *Shell {
	if opts.Scheduler == nil {
		opts.Scheduler = panel.TimerScheduler{}
	}
	if opts.ScrollIdleDelay <= 0 {
		opts.ScrollIdleDelay = DefaultScrollIdleDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Shell{
		opts:      opts,
		logger:    logger,
		collapsed: opts.Collapsed,
	}
}

// OnChange registers fn to be called after any state change. Callbacks run
// without the lock held.
func (s *Shell) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SidebarCollapsed reports the sidebar flag alone.
func (s *Shell) SidebarCollapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collapsed
}

// Collapsed reports whether the sidebar is shown as a rail at the given
// terminal width: either it was collapsed or the terminal is narrow.
func (s *Shell) Collapsed(width int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collapsed || width <= s.opts.Breakpoint
}

// Mobile reports whether width is at or below the breakpoint.
func (s *Shell) Mobile(width int) bool {
	return width <= s.opts.Breakpoint
}

// ToggleSidebar flips the sidebar and returns the new collapsed state.
func (s *Shell) ToggleSidebar() bool {
	s.mu.Lock()
	s.collapsed = !s.collapsed
	collapsed := s.collapsed
	s.mu.Unlock()

	s.logger.Debug("sidebar toggled", "collapsed", collapsed)
	if collapsed {
		s.announce(MsgSidebarCollapsed)
	} else {
		s.announce(MsgSidebarExpanded)
	}
	s.emit()
	return collapsed
}

// CollapseSidebar collapses an expanded sidebar.
func (s *Shell) CollapseSidebar() {
	if !s.SidebarCollapsed() {
		s.ToggleSidebar()
	}
}

// ExpandSidebar expands a collapsed sidebar.
func (s *Shell) ExpandSidebar() {
	if s.SidebarCollapsed() {
		s.ToggleSidebar()
	}
}

// MenuOpen reports whether the narrow-screen menu is open.
func (s *Shell) MenuOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuOpen
}

// ToggleMenu flips the narrow-screen menu and returns whether it is open.
func (s *Shell) ToggleMenu() bool {
	s.mu.Lock()
	s.menuOpen = !s.menuOpen
	open := s.menuOpen
	s.mu.Unlock()

	s.logger.Debug("menu toggled", "open", open)
	if open {
		s.announce(MsgMenuOpened)
	} else {
		s.announce(MsgMenuClosed)
	}
	s.emit()
	return open
}

// OpenMenu opens a closed menu.
func (s *Shell) OpenMenu() {
	if !s.MenuOpen() {
		s.ToggleMenu()
	}
}

// CloseMenu closes an open menu.
func (s *Shell) CloseMenu() {
	if s.MenuOpen() {
		s.ToggleMenu()
	}
}

// NavClicked closes the menu after a navigation link was followed.
func (s *Shell) NavClicked() {
	s.CloseMenu()
}

// BackdropClicked closes the menu after a click outside of it.
func (s *Shell) BackdropClicked() {
	s.CloseMenu()
}

// Scroll records a new scroll offset of the content pane. The shell reports
// scrolling until no further scroll arrives for the idle delay.
func (s *Shell) Scroll(offset int) {
	s.mu.Lock()
	s.offset = offset
	s.scrolled = offset > 0
	s.scrolling = true

	s.idleGen++
	gen := s.idleGen
	if s.idleTask != nil {
		s.idleTask.Stop()
	}
	s.idleTask = s.opts.Scheduler.After(s.opts.ScrollIdleDelay, func() {
		s.mu.Lock()
		if gen != s.idleGen {
			s.mu.Unlock()
			return
		}
		s.idleTask = nil
		s.scrolling = false
		s.mu.Unlock()
		s.emit()
	})
	s.mu.Unlock()

	s.emit()
}

// Offset returns the last recorded scroll offset.
func (s *Shell) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// Scrolled reports whether the content is scrolled away from the top.
func (s *Shell) Scrolled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolled
}

// Scrolling reports whether a scroll happened within the idle delay.
func (s *Shell) Scrolling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolling
}

func (s *Shell) announce(msg string) {
	if s.opts.Announce != nil {
		s.opts.Announce(msg)
	}
}

func (s *Shell) emit() {
	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
