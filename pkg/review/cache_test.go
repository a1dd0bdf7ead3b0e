package review_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"github.com/ward-lab/themis/pkg/review"
)

func TestCache_GetSetInvalidate(t *testing.T) {
	cache := review.NewCache()
	key := review.ReviewQueueKey

	_, ok := cache.Get(key)
	gt.B(t, ok).False()

	cache.Set(key, []*model.Subject{
		{ID: "q-1", Title: "Expand to EMEA", Status: types.SubjectStatusReadyForReview},
	})

	subjects, ok := cache.Get(key)
	gt.B(t, ok).True()
	gt.Array(t, subjects).Length(1)
	gt.Value(t, subjects[0].ID).Equal(types.SubjectID("q-1"))

	cache.Invalidate(key)
	_, ok = cache.Get(key)
	gt.B(t, ok).False()
}

func TestCache_GetReturnsCopies(t *testing.T) {
	cache := review.NewCache()
	key := review.ReviewQueueKey

	cache.Set(key, []*model.Subject{
		{ID: "q-1", Status: types.SubjectStatusReadyForReview},
	})

	subjects, _ := cache.Get(key)
	subjects[0].Status = types.SubjectStatusDeclined

	again, _ := cache.Get(key)
	gt.Value(t, again[0].Status).Equal(types.SubjectStatusReadyForReview)
}

func TestCache_SubscribeNotifiesOnChange(t *testing.T) {
	cache := review.NewCache()
	key := review.ReviewQueueKey

	var notified atomic.Int64
	unsubscribe := cache.Subscribe(func(k review.CollectionKey) {
		if k == key {
			notified.Add(1)
		}
	})

	cache.Set(key, nil)
	cache.Invalidate(key)
	gt.Number(t, notified.Load()).Equal(2)

	unsubscribe()
	cache.Set(key, nil)
	gt.Number(t, notified.Load()).Equal(2)
}

func TestCache_SubscribeCyclesReclaimSlots(t *testing.T) {
	cache := review.NewCache()
	key := review.ReviewQueueKey

	// Churn through many subscriptions; earlier unsubscribes must not
	// leave slots behind or disturb later subscribers.
	for i := 0; i < 100; i++ {
		unsubscribe := cache.Subscribe(func(review.CollectionKey) {})
		unsubscribe()
	}

	var notified atomic.Int64
	unsubscribe := cache.Subscribe(func(k review.CollectionKey) {
		if k == key {
			notified.Add(1)
		}
	})
	defer unsubscribe()

	cache.Set(key, nil)
	gt.Number(t, notified.Load()).Equal(1)
}

func TestCache_InflightCyclesReclaimSlots(t *testing.T) {
	cache := review.NewCache()
	key := review.ReviewQueueKey

	for i := 0; i < 100; i++ {
		_, cancel := context.WithCancel(context.Background())
		deregister := cache.RegisterInflight(key, cancel)
		deregister()
		cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	deregister := cache.RegisterInflight(key, cancel)
	defer deregister()

	cache.CancelInflight(key)
	gt.Error(t, ctx.Err())
}

func TestCache_CancelInflight(t *testing.T) {
	cache := review.NewCache()
	key := review.ReviewQueueKey

	ctx, cancel := context.WithCancel(context.Background())
	deregister := cache.RegisterInflight(key, cancel)
	defer deregister()

	cache.CancelInflight(key)

	gt.Error(t, ctx.Err())
}

func TestCache_CancelInflightIsIdempotent(t *testing.T) {
	cache := review.NewCache()
	key := review.ReviewQueueKey

	_, cancel := context.WithCancel(context.Background())
	deregister := cache.RegisterInflight(key, cancel)

	cache.CancelInflight(key)
	cache.CancelInflight(key)
	deregister()
	deregister()
}
