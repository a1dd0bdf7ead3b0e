package review

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// RetryRegistry retains, per subject, a no-argument closure that re-runs
// the exact failed mutation. Keying by subject keeps concurrent
// independent failures from colliding in the notification surface.
type RetryRegistry struct {
	mu      sync.Mutex
	entries map[types.SubjectID]func(ctx context.Context) error
}

// NewRetryRegistry creates an empty registry
func NewRetryRegistry() *RetryRegistry {
	return &RetryRegistry{
		entries: make(map[types.SubjectID]func(ctx context.Context) error),
	}
}

func (r *RetryRegistry) put(subjectID types.SubjectID, retry func(ctx context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[subjectID] = retry
}

// Get returns the retry closure for the subject, if one is registered
func (r *RetryRegistry) Get(subjectID types.SubjectID) (func(ctx context.Context) error, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	retry, ok := r.entries[subjectID]
	return retry, ok
}

// Clear drops the retry closure for the subject; no-op if absent
func (r *RetryRegistry) Clear(subjectID types.SubjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, subjectID)
}

// Retry runs and consumes the registered closure for the subject
func (r *RetryRegistry) Retry(ctx context.Context, subjectID types.SubjectID) error {
	r.mu.Lock()
	retry, ok := r.entries[subjectID]
	delete(r.entries, subjectID)
	r.mu.Unlock()

	if !ok {
		return goerr.New("no retry registered", goerr.V("subjectID", subjectID))
	}
	return retry(ctx)
}
