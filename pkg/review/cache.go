package review

import (
	"context"
	"sync"

	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// CollectionKey identifies a cached view of subjects
type CollectionKey string

const (
	// ReviewQueueKey is the reviewer's pending queue view
	ReviewQueueKey CollectionKey = "subjects:review_queue"
)

// Cache is an explicit, invalidatable cache of subject collections. It
// is the single shared view read by consumers and written only by the
// mutator: snapshot, restore and optimistic apply are unexported so no
// other package can mutate cached subjects directly.
type Cache struct {
	mu          sync.RWMutex
	collections map[CollectionKey][]*model.Subject
	inflight    map[CollectionKey]map[uint64]context.CancelFunc
	subscribers map[uint64]func(CollectionKey)
	nextID      uint64
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		collections: make(map[CollectionKey][]*model.Subject),
		inflight:    make(map[CollectionKey]map[uint64]context.CancelFunc),
		subscribers: make(map[uint64]func(CollectionKey)),
	}
}

// Get returns a deep copy of the cached collection, or false when the
// key has never been set or was invalidated.
func (c *Cache) Get(key CollectionKey) ([]*model.Subject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subjects, ok := c.collections[key]
	if !ok {
		return nil, false
	}
	return model.CloneSubjects(subjects), true
}

// Set stores a deep copy of the collection and notifies subscribers
func (c *Cache) Set(key CollectionKey, subjects []*model.Subject) {
	c.mu.Lock()
	c.collections[key] = model.CloneSubjects(subjects)
	c.mu.Unlock()

	c.notify(key)
}

// Invalidate drops the cached collection so the next read goes back to
// the remote store, and notifies subscribers.
func (c *Cache) Invalidate(key CollectionKey) {
	c.mu.Lock()
	delete(c.collections, key)
	c.mu.Unlock()

	c.notify(key)
}

// Subscribe registers a re-render callback invoked whenever a collection
// changes. The returned function removes the subscription; the slot is
// reclaimed, so long-lived caches survive any number of
// subscribe/unsubscribe cycles.
func (c *Cache) Subscribe(fn func(CollectionKey)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// RegisterInflight records the cancel function of an in-flight load for
// the key. The returned function deregisters it; loaders call it when
// the load settles.
func (c *Cache) RegisterInflight(key CollectionKey, cancel context.CancelFunc) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	cancels, ok := c.inflight[key]
	if !ok {
		cancels = make(map[uint64]context.CancelFunc)
		c.inflight[key] = cancels
	}
	cancels[id] = cancel
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if cancels, ok := c.inflight[key]; ok {
			delete(cancels, id)
			if len(cancels) == 0 {
				delete(c.inflight, key)
			}
		}
	}
}

// CancelInflight cancels all in-flight loads for the key so a
// concurrently-resolving refresh cannot clobber an optimistic write.
func (c *Cache) CancelInflight(key CollectionKey) {
	c.mu.Lock()
	cancels := c.inflight[key]
	delete(c.inflight, key)
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (c *Cache) notify(key CollectionKey) {
	c.mu.RLock()
	subscribers := make([]func(CollectionKey), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.RUnlock()

	for _, fn := range subscribers {
		fn(key)
	}
}

// snapshotAndApply atomically snapshots the collection and rewrites the
// target subject to the post-decision status. The snapshot is taken
// before the apply so a later restore reverts exactly to the
// pre-mutation state. Returns the previous status of the subject when it
// was present in the cache.
func (c *Cache) snapshotAndApply(key CollectionKey, subjectID types.SubjectID, status types.SubjectStatus) (snapshot []*model.Subject, prev types.SubjectStatus, found bool) {
	c.mu.Lock()

	subjects, ok := c.collections[key]
	if ok {
		snapshot = model.CloneSubjects(subjects)
		for _, s := range subjects {
			if s.ID == subjectID {
				prev = s.Status
				s.Status = status
				found = true
				break
			}
		}
	}
	c.mu.Unlock()

	if found {
		c.notify(key)
	}
	return snapshot, prev, found
}

// restore puts back the snapshot taken by snapshotAndApply, verbatim
func (c *Cache) restore(key CollectionKey, snapshot []*model.Subject) {
	c.mu.Lock()
	if snapshot == nil {
		delete(c.collections, key)
	} else {
		c.collections[key] = snapshot
	}
	c.mu.Unlock()

	c.notify(key)
}
