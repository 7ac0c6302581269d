// ABOUTME: Debounced autosave for diary edits
// ABOUTME: Each edit rearms one pending save; firing records the staged draft
package journal

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultAutosaveDelay is the quiet window after the last edit
const DefaultAutosaveDelay = 2 * time.Second

// AutoSaver coalesces bursts of edits into a single save
type AutoSaver struct {
	engine  *Engine
	clock   clockwork.Clock
	delay   time.Duration
	onError func(error)

	mu       sync.Mutex
	idle     *sync.Cond
	timer    clockwork.Timer
	gen      uint64
	pending  bool
	inflight int
	saves    int
}

// NewAutoSaver creates an autosaver using the engine's clock.
// onError receives failures from timer-fired saves and may be nil.
func NewAutoSaver(engine *Engine, delay time.Duration, onError func(error)) *AutoSaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	a := &AutoSaver{
		engine:  engine,
		clock:   engine.Clock(),
		delay:   delay,
		onError: onError,
	}
	a.idle = sync.NewCond(&a.mu)
	return a
}

// Schedule (re)arms the pending save, measured from now
func (a *AutoSaver) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.pending = true
	a.timer = a.clock.AfterFunc(a.delay, func() { a.fire(gen) })
}

// fire ignores triggers superseded by a later Schedule
func (a *AutoSaver) fire(gen uint64) {
	a.mu.Lock()
	if !a.pending || gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.pending = false
	a.timer = nil
	a.inflight++
	a.mu.Unlock()

	err := a.save()
	a.done()
	if err != nil && a.onError != nil {
		a.onError(err)
	}
}

func (a *AutoSaver) save() error {
	_, saved, err := a.engine.SaveStaged()
	if saved && err == nil {
		a.mu.Lock()
		a.saves++
		a.mu.Unlock()
	}
	return err
}

func (a *AutoSaver) done() {
	a.mu.Lock()
	a.inflight--
	if a.inflight == 0 {
		a.idle.Broadcast()
	}
	a.mu.Unlock()
}

// waitIdleLocked blocks until no timer-fired save is running. a.mu must be held.
func (a *AutoSaver) waitIdleLocked() {
	for a.inflight > 0 {
		a.idle.Wait()
	}
}

// Flush waits for a save already in progress, then runs a pending save
// immediately.
func (a *AutoSaver) Flush() error {
	a.mu.Lock()
	a.waitIdleLocked()
	if !a.pending {
		a.mu.Unlock()
		return nil
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = false
	a.inflight++
	a.mu.Unlock()

	err := a.save()
	a.done()
	return err
}

// Stop cancels a pending save without running it and waits for a save
// already in progress.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = false
	a.waitIdleLocked()
}

// Pending reports whether a save is armed
func (a *AutoSaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Saves returns how many autosaves have been written
func (a *AutoSaver) Saves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves
}

// Delay returns the quiet window
func (a *AutoSaver) Delay() time.Duration {
	return a.delay
}
