package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"github.com/ward-lab/themis/pkg/review"
	"github.com/ward-lab/themis/pkg/utils/errutil"
	"github.com/ward-lab/themis/pkg/utils/logging"
)

// ReviewUseCase covers the reviewer side: working the queue, drafting a
// response, submitting a decision optimistically, and undoing a
// just-committed one.
type ReviewUseCase struct {
	repo     interfaces.Repository
	drafts   interfaces.DraftStore
	notifier interfaces.Notifier

	cache   *review.Cache
	hub     *review.SyncHub
	retries *review.RetryRegistry
	mutator *review.Mutator
	undoCtl *review.UndoController
	writer  *review.DraftWriter

	mu       sync.Mutex
	sessions map[types.SubjectID]*review.UndoSession
	panels   map[types.SubjectID]*review.Panel
}

// ReviewOption is a functional option for ReviewUseCase
type ReviewOption func(*reviewConfig)

type reviewConfig struct {
	notifier      interfaces.Notifier
	undoWindow    time.Duration
	undoTick      time.Duration
	debounceDelay time.Duration
}

// WithReviewNotifier sets the notification surface
func WithReviewNotifier(notifier interfaces.Notifier) ReviewOption {
	return func(cfg *reviewConfig) {
		cfg.notifier = notifier
	}
}

// WithReviewUndoWindow overrides undo timing
func WithReviewUndoWindow(window, tick time.Duration) ReviewOption {
	return func(cfg *reviewConfig) {
		cfg.undoWindow = window
		cfg.undoTick = tick
	}
}

// WithReviewDebounceDelay overrides the draft write debounce delay
func WithReviewDebounceDelay(delay time.Duration) ReviewOption {
	return func(cfg *reviewConfig) {
		cfg.debounceDelay = delay
	}
}

// NewReviewUseCase wires the review core against the repository
func NewReviewUseCase(repo interfaces.Repository, drafts interfaces.DraftStore, opts ...ReviewOption) *ReviewUseCase {
	cfg := &reviewConfig{
		undoWindow:    review.DefaultUndoWindow,
		undoTick:      review.DefaultUndoTick,
		debounceDelay: review.DefaultDebounceDelay,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cache := review.NewCache()
	hub := review.NewSyncHub()
	retries := review.NewRetryRegistry()

	return &ReviewUseCase{
		repo:     repo,
		drafts:   drafts,
		notifier: cfg.notifier,
		cache:    cache,
		hub:      hub,
		retries:  retries,
		mutator:  review.NewMutator(cache, review.ReviewQueueKey, repo, drafts, hub, retries),
		undoCtl: review.NewUndoController(repo, cache, review.ReviewQueueKey,
			review.WithUndoWindow(cfg.undoWindow), review.WithUndoTick(cfg.undoTick)),
		writer:   review.NewDraftWriter(drafts, review.WithDebounceDelay(cfg.debounceDelay)),
		sessions: make(map[types.SubjectID]*review.UndoSession),
		panels:   make(map[types.SubjectID]*review.Panel),
	}
}

// Cache exposes the shared subject cache for UI subscriptions
func (uc *ReviewUseCase) Cache() *review.Cache {
	return uc.cache
}

// SyncHub exposes the shared sync indicator feed
func (uc *ReviewUseCase) SyncHub() *review.SyncHub {
	return uc.hub
}

// LoadQueue returns the review queue, serving from cache when possible.
// Loads register themselves as in-flight so a submit can cancel them
// before taking its snapshot.
func (uc *ReviewUseCase) LoadQueue(ctx context.Context) ([]*model.Subject, error) {
	if subjects, ok := uc.cache.Get(review.ReviewQueueKey); ok {
		return subjects, nil
	}

	loadCtx, cancel := context.WithCancel(ctx)
	deregister := uc.cache.RegisterInflight(review.ReviewQueueKey, cancel)
	defer deregister()
	defer cancel()

	subjects, err := uc.repo.Subject().ListByStatus(loadCtx, types.SubjectStatusReadyForReview)
	if err != nil {
		if loadCtx.Err() != nil {
			// Superseded by an optimistic write; the caller re-reads
			// from the cache on the next notification.
			return nil, goerr.Wrap(err, "queue load cancelled")
		}
		return nil, errutil.Handle(ctx, goerr.Wrap(err, "failed to load review queue"), "LoadQueue failed")
	}

	if loadCtx.Err() == nil {
		uc.cache.Set(review.ReviewQueueKey, subjects)
	}
	return subjects, nil
}

// Submit commits a decision through the optimistic mutator and arms the
// undo window on success.
func (uc *ReviewUseCase) Submit(ctx context.Context, in review.DecisionInput) (*review.Commit, *review.UndoSession, error) {
	existing, err := uc.repo.Decision().GetBySubject(ctx, in.SubjectID)
	if err != nil {
		return nil, nil, errutil.Handle(ctx, goerr.Wrap(err, "failed to check existing decisions",
			goerr.V("subjectID", in.SubjectID)), "Submit failed")
	}
	if len(existing) > 0 {
		return nil, nil, goerr.Wrap(ErrDecisionExists, "subject already decided",
			goerr.V("subjectID", in.SubjectID), goerr.T(types.ErrTagValidation))
	}

	// Any pending debounced draft write for this subject is superseded
	// by the submit.
	uc.writer.Cancel(in.SubjectID)

	commit, err := uc.mutator.Decide(ctx, in)
	if err != nil {
		uc.notifyFailure(ctx, in.SubjectID, err)
		return nil, nil, errutil.Handle(ctx, err, "Submit failed")
	}

	session := uc.undoCtl.Arm(commit)

	uc.mu.Lock()
	if prev, ok := uc.sessions[in.SubjectID]; ok {
		prev.Stop()
	}
	uc.sessions[in.SubjectID] = session
	uc.mu.Unlock()

	// Drop the session once it settles or is torn down; a newer session
	// for the same subject may already have replaced it.
	go func() {
		select {
		case <-session.Dismissed():
		case <-session.Stopped():
		}
		uc.mu.Lock()
		if uc.sessions[in.SubjectID] == session {
			delete(uc.sessions, in.SubjectID)
		}
		uc.mu.Unlock()
	}()

	uc.notifyCommitted(ctx, in.SubjectID, session)
	return commit, session, nil
}

// Retry re-invokes the last failed mutation for the subject
func (uc *ReviewUseCase) Retry(ctx context.Context, subjectID types.SubjectID) error {
	if err := uc.mutator.Retry(ctx, subjectID); err != nil {
		return errutil.Handle(ctx, err, "Retry failed")
	}
	return nil
}

// Undo cancels the just-committed decision for the subject, if its undo
// window is still open.
func (uc *ReviewUseCase) Undo(ctx context.Context, subjectID types.SubjectID) error {
	uc.mu.Lock()
	session, ok := uc.sessions[subjectID]
	uc.mu.Unlock()

	if !ok {
		return goerr.Wrap(ErrNoUndoWindow, "nothing to undo", goerr.V("subjectID", subjectID))
	}

	if err := session.Undo(ctx); err != nil {
		return errutil.Handle(ctx, err, "Undo failed")
	}
	return nil
}

// UndoSession returns the active undo session for the subject, if any
func (uc *ReviewUseCase) UndoSession(subjectID types.SubjectID) (*review.UndoSession, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	session, ok := uc.sessions[subjectID]
	return session, ok
}

// SaveDraft schedules a debounced draft write for the subject
func (uc *ReviewUseCase) SaveDraft(ctx context.Context, subjectID types.SubjectID, draft *model.Draft) {
	uc.writer.Schedule(subjectID, draft)
}

// SaveDraftNow writes the draft immediately, bypassing the debounce
func (uc *ReviewUseCase) SaveDraftNow(ctx context.Context, subjectID types.SubjectID, draft *model.Draft) error {
	uc.writer.Cancel(subjectID)
	if err := uc.drafts.SetDraft(ctx, subjectID, draft); err != nil {
		return errutil.Handle(ctx, goerr.Wrap(err, "failed to save draft",
			goerr.V("subjectID", subjectID)), "SaveDraftNow failed")
	}
	return nil
}

// LoadDraft returns the stored draft for the subject, if any
func (uc *ReviewUseCase) LoadDraft(ctx context.Context, subjectID types.SubjectID) (*model.Draft, bool, error) {
	draft, ok, err := uc.drafts.GetDraft(ctx, subjectID)
	if err != nil {
		return nil, false, errutil.Handle(ctx, goerr.Wrap(err, "failed to load draft",
			goerr.V("subjectID", subjectID)), "LoadDraft failed")
	}
	return draft, ok, nil
}

// DiscardDraft drops the stored draft and any pending debounced write
func (uc *ReviewUseCase) DiscardDraft(ctx context.Context, subjectID types.SubjectID) error {
	uc.writer.Cancel(subjectID)
	if err := uc.drafts.ClearDraft(ctx, subjectID); err != nil {
		return errutil.Handle(ctx, goerr.Wrap(err, "failed to discard draft",
			goerr.V("subjectID", subjectID)), "DiscardDraft failed")
	}
	return nil
}

// OpenPanel marks the subject's review panel open and returns the draft
// to restore on the closed-to-open edge.
func (uc *ReviewUseCase) OpenPanel(ctx context.Context, subjectID types.SubjectID) (*model.Draft, bool, error) {
	uc.mu.Lock()
	panel, ok := uc.panels[subjectID]
	if !ok {
		panel = review.NewPanel(uc.drafts)
		uc.panels[subjectID] = panel
	}
	uc.mu.Unlock()

	return panel.Open(ctx, subjectID)
}

// ClosePanel marks the subject's review panel closed and drops its
// tracker. Reopening starts from a fresh closed panel, so the draft is
// restored again on the next open.
func (uc *ReviewUseCase) ClosePanel(subjectID types.SubjectID) {
	uc.mu.Lock()
	panel, ok := uc.panels[subjectID]
	delete(uc.panels, subjectID)
	uc.mu.Unlock()

	if ok {
		panel.Close()
	}
}

// History returns the decisions recorded for a subject, newest first
func (uc *ReviewUseCase) History(ctx context.Context, subjectID types.SubjectID) ([]*model.Decision, error) {
	decisions, err := uc.repo.Decision().GetBySubject(ctx, subjectID)
	if err != nil {
		return nil, errutil.Handle(ctx, goerr.Wrap(err, "failed to load decision history",
			goerr.V("subjectID", subjectID)), "History failed")
	}
	return decisions, nil
}

// Close stops all undo countdowns and pending draft writes
func (uc *ReviewUseCase) Close() {
	uc.writer.CancelAll()

	uc.mu.Lock()
	defer uc.mu.Unlock()
	for _, session := range uc.sessions {
		session.Stop()
	}
}

func (uc *ReviewUseCase) notifyCommitted(ctx context.Context, subjectID types.SubjectID, session *review.UndoSession) {
	if uc.notifier == nil {
		return
	}

	n := model.Notification{
		Message: "Decision committed",
		Action: &model.NotificationAction{
			Label: "Undo",
			Run: func(ctx context.Context) error {
				return session.Undo(ctx)
			},
		},
		// The undo window governs dismissal, not the notification
		// system.
		Indefinite: true,
	}
	if err := uc.notifier.Notify(ctx, n); err != nil {
		logging.From(ctx).Warn("failed to notify commit",
			"subjectID", subjectID, "error", err)
	}
}

func (uc *ReviewUseCase) notifyFailure(ctx context.Context, subjectID types.SubjectID, cause error) {
	if uc.notifier == nil {
		return
	}

	n := model.Notification{
		Message: "Decision failed: " + cause.Error(),
	}
	if retry, ok := uc.retries.Get(subjectID); ok {
		n.Action = &model.NotificationAction{
			Label: "Retry",
			Run:   retry,
		}
	}
	if err := uc.notifier.Notify(ctx, n); err != nil {
		logging.From(ctx).Warn("failed to notify failure",
			"subjectID", subjectID, "error", err)
	}
}
