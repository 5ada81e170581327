// Package scrollspy highlights the navigation links of the section
// currently in view.
package scrollspy

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/docshell/internal/panel"
)

// Defaults for Options.
const (
	DefaultClickLock = time.Second
	DefaultBand      = 0.2
)

// Link is a navigation entry pointing at a section id.
type Link struct {
	Target string
	Label  string
	Depth  int
}

// Section is a region of the content pane, in lines from the top.
type Section struct {
	ID     string
	Top    int
	Height int
}

// Options configures a Spy.
type Options struct {
	// ClickLock suppresses scroll updates for this long after a link was
	// clicked, so the jump does not flicker through intermediate sections.
	ClickLock time.Duration

	// Band is the fraction of the viewport height at which a section
	// becomes current.
	Band float64

	// Exclude drops links whose target it returns true for.
	Exclude func(target string) bool

	Scheduler panel.Scheduler
	Logger    *slog.Logger
}

// Spy tracks which links are current. It is safe for concurrent use.
type Spy struct {
	mu     sync.Mutex
	opts   Options
	logger *slog.Logger

	links   []Link
	active  map[string]bool
	current string

	locked   bool
	lockTask panel.Task
	lockGen  uint64
}

// New creates a Spy over links.
func New(links []Link, opts Options) *Spy {
	if opts.Scheduler == nil {
		opts.Scheduler = panel.TimerScheduler{}
	}
	if opts.ClickLock <= 0 {
		opts.ClickLock = DefaultClickLock
	}
	if opts.Band <= 0 || opts.Band >= 1 {
		opts.Band = DefaultBand
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	kept := make([]Link, 0, len(links))
	for _, l := range links {
		if l.Target == "" {
			continue
		}
		if opts.Exclude != nil && opts.Exclude(l.Target) {
			continue
		}
		kept = append(kept, l)
	}

	return &Spy{
		opts:   opts,
		logger: logger,
		links:  kept,
		active: make(map[string]bool),
	}
}

// Links returns the tracked links.
func (s *Spy) Links() []Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Link, len(s.links))
	copy(out, s.links)
	return out
}

// Matches reports whether a link to target covers the section id: the ids
// are equal, or id continues target with "__" or "_".
func Matches(target, id string) bool {
	return target == id ||
		strings.HasPrefix(id, target+"__") ||
		strings.HasPrefix(id, target+"_")
}

// Activate marks the links covering id as current. It does nothing while
// the click lock is held or when id is already current, and reports whether
// anything was updated.
func (s *Spy) Activate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked || id == s.current {
		return false
	}
	s.current = id

	clear(s.active)
	for _, l := range s.links {
		if Matches(l.Target, id) {
			s.active[l.Target] = true
		}
	}
	s.logger.Debug("scroll spy", "section", id)
	return true
}

// Click marks target as the only current link and holds the click lock.
// The observed section is forgotten, so the first Activate after the lock
// expires always takes effect.
func (s *Spy) Click(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.active)
	s.active[target] = true
	s.current = ""
	s.locked = true

	s.lockGen++
	gen := s.lockGen
	if s.lockTask != nil {
		s.lockTask.Stop()
	}
	s.lockTask = s.opts.Scheduler.After(s.opts.ClickLock, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.lockGen {
			return
		}
		s.lockTask = nil
		s.locked = false
	})
}

// Locked reports whether the click lock is held.
func (s *Spy) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Current returns the section id last activated by scrolling.
func (s *Spy) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsActive reports whether the link to target is current.
func (s *Spy) IsActive(target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[target]
}

// ActiveTargets returns the current link targets in link order.
func (s *Spy) ActiveTargets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, l := range s.links {
		if s.active[l.Target] {
			out = append(out, l.Target)
		}
	}
	return out
}

// Update activates the section crossing the band line for the given
// scroll position.
func (s *Spy) Update(sections []Section, offset, viewportHeight int) bool {
	id, ok := SectionAt(sections, offset, viewportHeight, s.opts.Band)
	if !ok {
		return false
	}
	return s.Activate(id)
}

// SectionAt returns the section crossing the line at band*viewportHeight
// below the scroll offset. Sections must be sorted by Top. When sections
// leave gaps, the last section starting above the line wins.
func SectionAt(sections []Section, offset, viewportHeight int, band float64) (string, bool) {
	line := offset + int(band*float64(viewportHeight))

	found := -1
	for i, sec := range sections {
		if sec.Top > line {
			break
		}
		found = i
	}
	if found < 0 {
		return "", false
	}
	return sections[found].ID, true
}
