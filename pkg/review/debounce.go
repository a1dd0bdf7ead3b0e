package review

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the idle period before a scheduled call fires
const DefaultDebounceDelay = 2000 * time.Millisecond

// Debouncer coalesces bursts of calls into one: Schedule restarts the
// idle timer and only the last scheduled arguments are applied when the
// timer elapses. Cancel is idempotent and safe after the timer fired.
type Debouncer[T any] struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
	delay time.Duration
	fn    func(T)
}

// NewDebouncer wraps fn with a debounce of the given delay
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		fn:    fn,
	}
}

// Schedule (re)starts the idle timer with the given arguments. Earlier
// pending calls are superseded, never applied alongside this one.
func (d *Debouncer[T]) Schedule(args T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	// The generation guard covers the window where a stopped timer has
	// already fired but its callback has not yet taken the lock.
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(args)
	})
}

// Cancel clears any pending timer. Safe to call zero, one, or many
// times, before or after the timer fired. Subsequent Schedule calls
// still work.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
