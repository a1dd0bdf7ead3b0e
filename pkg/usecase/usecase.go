package usecase

import (
	"time"

	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/review"
)

// UseCases bundles the proposer and reviewer use cases
type UseCases struct {
	repo     interfaces.Repository
	drafts   interfaces.DraftStore
	notifier interfaces.Notifier

	undoWindow    time.Duration
	undoTick      time.Duration
	debounceDelay time.Duration

	Subject *SubjectUseCase
	Review  *ReviewUseCase
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithNotifier sets the notification surface
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

// WithDraftStore replaces the default in-memory draft store
func WithDraftStore(drafts interfaces.DraftStore) Option {
	return func(uc *UseCases) {
		uc.drafts = drafts
	}
}

// WithUndoWindow overrides the undo window (tests use short windows)
func WithUndoWindow(window, tick time.Duration) Option {
	return func(uc *UseCases) {
		uc.undoWindow = window
		uc.undoTick = tick
	}
}

// WithDebounceDelay overrides the draft write debounce delay
func WithDebounceDelay(delay time.Duration) Option {
	return func(uc *UseCases) {
		uc.debounceDelay = delay
	}
}

// New wires the use cases against the given repository
func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:          repo,
		undoWindow:    review.DefaultUndoWindow,
		undoTick:      review.DefaultUndoTick,
		debounceDelay: review.DefaultDebounceDelay,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.drafts == nil {
		uc.drafts = review.NewDrafts()
	}

	uc.Subject = NewSubjectUseCase(repo)
	uc.Review = NewReviewUseCase(repo, uc.drafts,
		WithReviewNotifier(uc.notifier),
		WithReviewUndoWindow(uc.undoWindow, uc.undoTick),
		WithReviewDebounceDelay(uc.debounceDelay),
	)

	return uc
}

// Close tears down the review layer (undo countdowns, pending saves)
func (uc *UseCases) Close() {
	uc.Review.Close()
}
