// Package announce implements a live region for status messages, the
// terminal counterpart of a screen reader announcer.
//
// Each announcement first clears the region and then sets the message
// after a short delay, so a repeated message is still seen as new.
package announce

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/docshell/internal/panel"
)

// DefaultDelay is the time between clearing and setting the region.
const DefaultDelay = 100 * time.Millisecond

// sinkTimeout bounds each sink delivery.
const sinkTimeout = 2 * time.Second

// queueSize is the number of announcements waiting for sink delivery
// before new ones are dropped.
const queueSize = 16

// Priority is the politeness of an announcement.
type Priority string

const (
	Polite    Priority = "polite"
	Assertive Priority = "assertive"
)

// ParsePriority returns the priority named s. Anything other than
// "assertive" is polite.
func ParsePriority(s string) Priority {
	if s == string(Assertive) {
		return Assertive
	}
	return Polite
}

// Sink receives every announcement once it is set.
type Sink interface {
	Deliver(ctx context.Context, msg string, priority Priority) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, msg string, priority Priority) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, msg string, priority Priority) error {
	return f(ctx, msg, priority)
}

// Region is the visible state of the live region.
type Region struct {
	Message  string
	Priority Priority
}

// Options configures an Announcer.
type Options struct {
	Delay     time.Duration
	Sinks     []Sink
	Scheduler panel.Scheduler
	Logger    *slog.Logger
}

// Announcer owns the live region. It is safe for concurrent use.
//
// The region and listeners update on the scheduler; sinks are fed in
// announcement order by a single background worker.
type Announcer struct {
	mu     sync.Mutex
	opts   Options
	logger *slog.Logger

	region Region
	task   panel.Task
	gen    uint64

	listeners []func(Region)

	queue   chan delivery
	pending sync.WaitGroup
	closed  bool
}

type delivery struct {
	msg      string
	priority Priority
	sinks    []Sink
}

// New creates an Announcer.
func New(opts Options) *Announcer {
	if opts.Scheduler == nil {
		opts.Scheduler = panel.TimerScheduler{}
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Announcer{opts: opts, logger: logger}
}

// AddSink registers an additional sink.
func (a *Announcer) AddSink(s Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opts.Sinks = append(a.opts.Sinks, s)
}

// OnChange registers fn to be called whenever the region changes.
func (a *Announcer) OnChange(fn func(Region)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Region returns the current region state.
func (a *Announcer) Region() Region {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.region
}

// Announce clears the region and sets msg after the delay. A newer
// announcement supersedes a pending one.
func (a *Announcer) Announce(msg string, priority Priority) {
	if priority == "" {
		priority = Polite
	}

	a.mu.Lock()
	a.gen++
	gen := a.gen
	if a.task != nil {
		a.task.Stop()
	}
	a.region = Region{Priority: priority}
	cleared := a.region
	a.task = a.opts.Scheduler.After(a.opts.Delay, func() {
		a.set(gen, msg, priority)
	})
	listeners := a.listeners
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(cleared)
	}
}

// Polite announces msg politely.
func (a *Announcer) Polite(msg string) {
	a.Announce(msg, Polite)
}

// Flush waits until every queued announcement has reached its sinks.
func (a *Announcer) Flush() {
	a.pending.Wait()
}

// Close cancels any pending announcement and waits for queued sink
// deliveries. Later announcements update the region but reach no sinks.
func (a *Announcer) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	if a.task != nil {
		a.task.Stop()
		a.task = nil
	}
	if a.queue != nil {
		close(a.queue)
	}
	a.mu.Unlock()

	a.pending.Wait()
}

func (a *Announcer) set(gen uint64, msg string, priority Priority) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.task = nil
	a.region = Region{Message: msg, Priority: priority}
	region := a.region
	listeners := a.listeners
	if len(a.opts.Sinks) > 0 {
		a.enqueueLocked(delivery{msg: msg, priority: priority, sinks: a.opts.Sinks})
	}
	a.mu.Unlock()

	a.logger.Debug("announce", "message", msg, "priority", priority)
	for _, fn := range listeners {
		fn(region)
	}
}

// enqueueLocked hands d to the delivery worker, starting it on first use.
// The caller holds a.mu.
func (a *Announcer) enqueueLocked(d delivery) {
	if a.closed {
		return
	}
	if a.queue == nil {
		a.queue = make(chan delivery, queueSize)
		go a.deliverLoop(a.queue)
	}

	a.pending.Add(1)
	select {
	case a.queue <- d:
	default:
		a.pending.Done()
		a.logger.Warn("announcement queue full, dropping", "message", d.msg)
	}
}

func (a *Announcer) deliverLoop(queue <-chan delivery) {
	for d := range queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			if err := s.Deliver(ctx, d.msg, d.priority); err != nil {
				a.logger.Warn("announcement sink failed", "error", err)
			}
			cancel()
		}
		a.pending.Done()
	}
}
