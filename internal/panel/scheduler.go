package panel

import (
	"slices"
	"sync"
	"time"
)

// Task is a pending callback that can be cancelled.
type Task interface {
	// Stop cancels the task. It returns false if the task already ran or
	// was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay. Hosts with their own event loop
// supply an implementation that delivers callbacks on that loop.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
}

// TimerScheduler schedules callbacks with time.AfterFunc. Callbacks run on
// their own goroutine.
type TimerScheduler struct{}

// After implements Scheduler.
func (TimerScheduler) After(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}

// ManualScheduler is a Scheduler driven by an explicit clock. Callbacks run
// on the goroutine calling Advance, in due order. The position CLI uses it
// to replay hover sequences, tests use it to step timers.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// After implements Scheduler.
func (s *ManualScheduler) After(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, at: s.now + d, seq: len(s.tasks), fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Now returns the elapsed time on the manual clock.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of tasks that have neither run nor been
// stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every task that falls due.
// Tasks scheduled by callbacks run too if they fall within d.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *manualTask
		for _, t := range s.tasks {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.tasks = slices.DeleteFunc(s.tasks, func(t *manualTask) bool { return t.fired || t.stopped })
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.fired = true
		s.mu.Unlock()

		next.fn()
	}
}
