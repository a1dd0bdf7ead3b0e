package review

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"github.com/ward-lab/themis/pkg/utils/logging"
)

// draftSave carries the arguments of one debounced draft write
type draftSave struct {
	subjectID types.SubjectID
	draft     *model.Draft
}

// DraftWriter coalesces rapid local edits into one draft store write per
// subject after an idle period. Each subject owns its debouncer: edits
// and cancels for one subject never disturb another subject's pending
// write, and writes for different subjects may settle in any order. The
// save counter drives the transient "draft saved" indicator; it is
// cosmetic and carries no correctness weight.
type DraftWriter struct {
	store interfaces.DraftStore
	delay time.Duration

	mu         sync.Mutex
	debouncers map[types.SubjectID]*Debouncer[draftSave]

	saves   atomic.Int64
	savedAt atomic.Int64 // unix nano of the last fired save
}

// DraftWriterOption is a functional option for DraftWriter
type DraftWriterOption func(*draftWriterConfig)

type draftWriterConfig struct {
	delay time.Duration
}

// WithDebounceDelay overrides the idle period (tests use short delays)
func WithDebounceDelay(delay time.Duration) DraftWriterOption {
	return func(cfg *draftWriterConfig) {
		cfg.delay = delay
	}
}

// NewDraftWriter creates a debounced writer in front of the draft store
func NewDraftWriter(store interfaces.DraftStore, opts ...DraftWriterOption) *DraftWriter {
	cfg := &draftWriterConfig{delay: DefaultDebounceDelay}
	for _, opt := range opts {
		opt(cfg)
	}

	return &DraftWriter{
		store:      store,
		delay:      cfg.delay,
		debouncers: make(map[types.SubjectID]*Debouncer[draftSave]),
	}
}

// Schedule records an edit for the subject; the write fires after the
// idle period unless superseded by a later edit or cancelled.
func (w *DraftWriter) Schedule(subjectID types.SubjectID, draft *model.Draft) {
	w.debouncer(subjectID).Schedule(draftSave{subjectID: subjectID, draft: draft.Clone()})
}

func (w *DraftWriter) debouncer(subjectID types.SubjectID) *Debouncer[draftSave] {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, ok := w.debouncers[subjectID]
	if !ok {
		d = NewDebouncer(w.delay, w.fire)
		w.debouncers[subjectID] = d
	}
	return d
}

// Cancel drops the subject's pending write, e.g. on successful submit.
// Pending writes for other subjects are untouched.
func (w *DraftWriter) Cancel(subjectID types.SubjectID) {
	w.mu.Lock()
	d, ok := w.debouncers[subjectID]
	w.mu.Unlock()

	if ok {
		d.Cancel()
	}
}

// CancelAll drops every pending write, used on teardown
func (w *DraftWriter) CancelAll() {
	w.mu.Lock()
	debouncers := make([]*Debouncer[draftSave], 0, len(w.debouncers))
	for _, d := range w.debouncers {
		debouncers = append(debouncers, d)
	}
	w.mu.Unlock()

	for _, d := range debouncers {
		d.Cancel()
	}
}

// SaveCount returns how many debounced saves have fired
func (w *DraftWriter) SaveCount() int64 {
	return w.saves.Load()
}

// LastSavedAt returns when the last save fired, zero if none yet
func (w *DraftWriter) LastSavedAt() time.Time {
	ns := w.savedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (w *DraftWriter) fire(save draftSave) {
	ctx := context.Background()
	if err := w.store.SetDraft(ctx, save.subjectID, save.draft); err != nil {
		logging.Default().Warn("failed to save draft", "subjectID", save.subjectID, "error", err)
		return
	}
	w.saves.Add(1)
	w.savedAt.Store(time.Now().UnixNano())
}
