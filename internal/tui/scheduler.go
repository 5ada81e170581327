package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/docshell/internal/panel"
)

// taskMsg carries a timer callback onto the program's event loop.
type taskMsg struct {
	fn func()
}

// loopScheduler is a panel.Scheduler whose callbacks run inside Update, so
// the controllers never change state while the view is being rendered.
// Before a program is bound, callbacks run on the timer goroutine.
type loopScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *loopScheduler) bind(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

// After implements panel.Scheduler.
func (s *loopScheduler) After(d time.Duration, fn func()) panel.Task {
	return time.AfterFunc(d, func() {
		s.mu.Lock()
		send := s.send
		s.mu.Unlock()

		if send == nil {
			fn()
			return
		}
		send(taskMsg{fn: fn})
	})
}
