package review

import (
	"context"
	"sync"

	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// Panel tracks the open/closed state of one review panel so the draft
// restore fires exactly once per closed-to-open transition. Opening an
// already-open panel restores nothing; close and reopen restores again.
type Panel struct {
	mu     sync.Mutex
	open   bool
	drafts interfaces.DraftStore
}

// NewPanel creates a closed panel backed by the given draft store
func NewPanel(drafts interfaces.DraftStore) *Panel {
	return &Panel{drafts: drafts}
}

// Open transitions the panel to open. On the closed-to-open edge it
// returns the stored draft for restoration; otherwise it returns false.
func (p *Panel) Open(ctx context.Context, subjectID types.SubjectID) (*model.Draft, bool, error) {
	p.mu.Lock()
	wasOpen := p.open
	p.open = true
	p.mu.Unlock()

	if wasOpen {
		return nil, false, nil
	}

	return p.drafts.GetDraft(ctx, subjectID)
}

// Close transitions the panel to closed. Idempotent.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

// IsOpen reports whether the panel is currently open
func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}
