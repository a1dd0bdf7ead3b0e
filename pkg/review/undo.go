package review

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/types"
)

const (
	// DefaultUndoWindow is how long a committed decision can be undone
	DefaultUndoWindow = 5000 * time.Millisecond
	// DefaultUndoTick is the resolution of the remaining-time value
	DefaultUndoTick = 100 * time.Millisecond
)

// UndoState is the lifecycle state of an undo session
type UndoState string

const (
	UndoStateIdle     UndoState = "idle"
	UndoStateArmed    UndoState = "armed"
	UndoStateUndoing  UndoState = "undoing"
	UndoStateExpired  UndoState = "expired"
	UndoStateResolved UndoState = "resolved"
)

// UndoController arms undo sessions for committed decisions
type UndoController struct {
	repo   interfaces.Repository
	cache  *Cache
	key    CollectionKey
	window time.Duration
	tick   time.Duration
}

// UndoControllerOption is a functional option for UndoController
type UndoControllerOption func(*UndoController)

// WithUndoWindow overrides the undo window duration
func WithUndoWindow(window time.Duration) UndoControllerOption {
	return func(c *UndoController) {
		c.window = window
	}
}

// WithUndoTick overrides the countdown resolution
func WithUndoTick(tick time.Duration) UndoControllerOption {
	return func(c *UndoController) {
		c.tick = tick
	}
}

// NewUndoController creates a controller with the default 5s window
func NewUndoController(repo interfaces.Repository, cache *Cache, key CollectionKey, opts ...UndoControllerOption) *UndoController {
	c := &UndoController{
		repo:   repo,
		cache:  cache,
		key:    key,
		window: DefaultUndoWindow,
		tick:   DefaultUndoTick,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UndoSession is the transient state of one undo window. It is created
// on successful commit and destroyed on expiry, explicit undo, or
// teardown via Stop.
type UndoSession struct {
	mu    sync.Mutex
	state UndoState

	decisionID types.DecisionID
	subjectID  types.SubjectID
	prevStatus types.SubjectStatus

	repo  interfaces.Repository
	cache *Cache
	key   CollectionKey

	remainingNS atomic.Int64
	deadline    time.Time
	ticker      *time.Ticker
	stopped     chan struct{}
	stopOnce    sync.Once
	dismiss     chan struct{}
	dismissOnce sync.Once
}

// Arm starts the countdown for a just-committed decision
func (c *UndoController) Arm(commit *Commit) *UndoSession {
	s := &UndoSession{
		state:      UndoStateArmed,
		decisionID: commit.Decision.ID,
		subjectID:  commit.Subject.ID,
		prevStatus: commit.PrevStatus,
		repo:       c.repo,
		cache:      c.cache,
		key:        c.key,
		deadline:   time.Now().Add(c.window),
		ticker:     time.NewTicker(c.tick),
		stopped:    make(chan struct{}),
		dismiss:    make(chan struct{}),
	}
	s.remainingNS.Store(int64(c.window))

	go s.countdown()
	return s
}

// countdown updates the remaining-time value at tick resolution and
// expires the session when it reaches zero.
func (s *UndoSession) countdown() {
	for {
		select {
		case <-s.stopped:
			return
		case now := <-s.ticker.C:
			remaining := s.deadline.Sub(now)
			if remaining < 0 {
				remaining = 0
			}
			s.remainingNS.Store(int64(remaining))

			if remaining == 0 {
				s.expire()
				return
			}
		}
	}
}

func (s *UndoSession) expire() {
	s.mu.Lock()
	if s.state != UndoStateArmed {
		s.mu.Unlock()
		return
	}
	s.state = UndoStateExpired
	s.mu.Unlock()

	s.Stop()
	// The expiry dismisses the confirmation UI; the notification
	// surface never times it out on its own.
	s.dismissOnce.Do(func() { close(s.dismiss) })
}

// State returns the current session state
func (s *UndoSession) State() UndoState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the monotonically-decreasing remaining time of the
// window, at tick resolution. Consumers can drive a shrinking progress
// bar from this value alone.
func (s *UndoSession) Remaining() time.Duration {
	return time.Duration(s.remainingNS.Load())
}

// Dismissed is closed when the confirmation UI should be dismissed:
// on expiry or when an undo settles. It is decoupled from the countdown
// and never fires because of Stop.
func (s *UndoSession) Dismissed() <-chan struct{} {
	return s.dismiss
}

// Stopped is closed once the countdown is torn down, whether by Stop,
// expiry, or an undo. Owners use it to drop their reference to a
// session that can no longer act.
func (s *UndoSession) Stopped() <-chan struct{} {
	return s.stopped
}

// Stop tears the countdown down. Idempotent, safe after expiry, and
// never triggers a spurious dismiss.
func (s *UndoSession) Stop() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.stopped)
	})
}

// Undo invokes the compensating operations: delete the committed
// decision, then revert the subject to its pre-decision status. Only the
// first invocation acts; calls while undoing, after expiry, or after
// resolution are ignored. Undo is best-effort once attempted: a failed
// compensation is surfaced but the session still resolves, so it is
// never retried.
func (s *UndoSession) Undo(ctx context.Context) error {
	s.mu.Lock()
	if s.state != UndoStateArmed {
		s.mu.Unlock()
		return nil
	}
	s.state = UndoStateUndoing
	s.mu.Unlock()

	s.Stop()

	err := s.compensate(ctx)

	s.mu.Lock()
	s.state = UndoStateResolved
	s.mu.Unlock()

	s.dismissOnce.Do(func() { close(s.dismiss) })

	if err != nil {
		return goerr.Wrap(err, "undo failed",
			goerr.V("decisionID", s.decisionID),
			goerr.V("subjectID", s.subjectID))
	}

	// The subject reappears in its prior position on the next read.
	s.cache.Invalidate(s.key)
	return nil
}

func (s *UndoSession) compensate(ctx context.Context) error {
	if err := s.repo.Decision().Delete(ctx, s.decisionID); err != nil {
		return goerr.Wrap(err, "failed to delete decision")
	}
	if _, err := s.repo.Subject().UpdateStatus(ctx, s.subjectID, s.prevStatus); err != nil {
		return goerr.Wrap(err, "failed to revert subject status")
	}
	return nil
}
