package review

import (
	"context"
	"sync"
	"time"

	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// Drafts is the in-memory draft store: zero-or-one unsubmitted draft per
// subject. Last write wins; drafts are advisory, not authoritative, so
// there is no rollback concept here. Construct one per process and pass
// it by reference so tests can build isolated instances.
type Drafts struct {
	mu      sync.RWMutex
	entries map[types.SubjectID]*model.Draft
	now     func() time.Time
}

var _ interfaces.DraftStore = &Drafts{}

// DraftsOption is a functional option for Drafts
type DraftsOption func(*Drafts)

// WithDraftsClock replaces the clock used for last-modified stamps
func WithDraftsClock(now func() time.Time) DraftsOption {
	return func(d *Drafts) {
		d.now = now
	}
}

// NewDrafts creates an empty draft store
func NewDrafts(opts ...DraftsOption) *Drafts {
	d := &Drafts{
		entries: make(map[types.SubjectID]*model.Draft),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetDraft overwrites the draft for the subject wholesale and stamps
// last-modified. No validation is applied.
func (d *Drafts) SetDraft(ctx context.Context, subjectID types.SubjectID, draft *model.Draft) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored := draft.Clone()
	stored.UpdatedAt = d.now()
	d.entries[subjectID] = stored
	return nil
}

// GetDraft returns a copy of the draft for the subject, if present
func (d *Drafts) GetDraft(ctx context.Context, subjectID types.SubjectID) (*model.Draft, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	draft, ok := d.entries[subjectID]
	if !ok {
		return nil, false, nil
	}
	return draft.Clone(), true, nil
}

// ClearDraft removes the draft for the subject; no-op if absent
func (d *Drafts) ClearDraft(ctx context.Context, subjectID types.SubjectID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.entries, subjectID)
	return nil
}
