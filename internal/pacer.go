package internal

import (
	"sync"
	"time"
)

// DefaultPaceInterval approximates one display-refresh interval at 60Hz.
const DefaultPaceInterval = 16 * time.Millisecond

// TimerPacer implements Pacer on the wall clock via time.AfterFunc.
// Callbacks fire on a timer goroutine; the orchestrator re-enters its own
// loop through the tick mailbox, so this is safe.
type TimerPacer struct {
	interval time.Duration
}

// NewTimerPacer creates a pacer firing callbacks after interval.
// A non-positive interval falls back to DefaultPaceInterval.
func NewTimerPacer(interval time.Duration) *TimerPacer {
	if interval <= 0 {
		interval = DefaultPaceInterval
	}
	return &TimerPacer{interval: interval}
}

// Schedule implements Pacer.
func (p *TimerPacer) Schedule(fn func()) (cancel func()) {
	t := time.AfterFunc(p.interval, fn)
	return func() { t.Stop() }
}

// FramePacer implements Pacer with manual advancement: callbacks fire only
// when the host calls Advance, typically once per frame of its own loop
// (an ebiten Update, a test step). This makes the orchestrator's settle and
// progressive scheduling fully deterministic under test.
//
// Thread-safe: Schedule/cancel/Advance may be called from different
// goroutines.
type FramePacer struct {
	mu      sync.Mutex
	seq     uint64
	pending map[uint64]func()
}

// NewFramePacer creates an empty manually-advanced pacer.
func NewFramePacer() *FramePacer {
	return &FramePacer{pending: make(map[uint64]func())}
}

// Schedule implements Pacer. fn runs on the goroutine that calls Advance.
func (p *FramePacer) Schedule(fn func()) (cancel func()) {
	p.mu.Lock()
	p.seq++
	id := p.seq
	p.pending[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
	}
}

// Advance fires every callback scheduled before this call, in schedule
// order. Callbacks scheduled during Advance wait for the next Advance.
func (p *FramePacer) Advance() {
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	cutoff := p.seq
	var due []func()
	for id := uint64(1); id <= cutoff; id++ {
		if fn, ok := p.pending[id]; ok {
			due = append(due, fn)
			delete(p.pending, id)
		}
	}
	p.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Pending reports the number of scheduled, not-yet-fired callbacks.
func (p *FramePacer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}
