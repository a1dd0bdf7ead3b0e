package review

import (
	"context"
	"sync"

	"github.com/ward-lab/themis/pkg/domain/types"
)

// SyncEvent reports the progress of one mutation to the shared sync
// indicator. Retry is non-nil only for failures worth retrying; it
// re-invokes the exact failed mutation with its original arguments.
type SyncEvent struct {
	SubjectID types.SubjectID
	Pending   bool
	Err       error
	Retry     func(ctx context.Context) error
}

// SyncHub fans mutation status into a single subscriber. Independent
// action buttons all publish here instead of threading callbacks through
// their parents.
type SyncHub struct {
	mu         sync.RWMutex
	subscriber func(SyncEvent)
}

// NewSyncHub creates a hub with no subscriber
func NewSyncHub() *SyncHub {
	return &SyncHub{}
}

// SetSubscriber replaces the subscriber; nil detaches it
func (h *SyncHub) SetSubscriber(fn func(SyncEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscriber = fn
}

func (h *SyncHub) publish(ev SyncEvent) {
	h.mu.RLock()
	fn := h.subscriber
	h.mu.RUnlock()

	if fn != nil {
		fn(ev)
	}
}
