package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"github.com/ward-lab/themis/pkg/repository/memory"
	"github.com/ward-lab/themis/pkg/review"
	"github.com/ward-lab/themis/pkg/usecase"
)

type notifierMock struct {
	mu            sync.Mutex
	notifications []model.Notification
}

func (n *notifierMock) Notify(ctx context.Context, notification model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
	return nil
}

func (n *notifierMock) all() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Notification{}, n.notifications...)
}

func setupReview(t *testing.T) (*usecase.UseCases, *notifierMock, *model.Subject) {
	t.Helper()
	ctx := context.Background()

	notifier := &notifierMock{}
	uc := usecase.New(memory.New(),
		usecase.WithNotifier(notifier),
		usecase.WithUndoWindow(500*time.Millisecond, 20*time.Millisecond),
		usecase.WithDebounceDelay(30*time.Millisecond),
	)
	t.Cleanup(uc.Close)

	subject, err := uc.Subject.CreateSubject(ctx,
		"Expand to EMEA", "Market analysis attached", "Open a Dublin office in Q3", "proposer-1")
	gt.NoError(t, err).Required()

	return uc, notifier, subject
}

func TestReview_SubmitArmsUndoAndNotifies(t *testing.T) {
	ctx := context.Background()
	uc, notifier, subject := setupReview(t)

	commit, session, err := uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID: subject.ID,
		Kind:      types.DecisionKindApproved,
		DeciderID: "reviewer-1",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, commit.Subject.Status).Equal(types.SubjectStatusApproved)
	gt.Value(t, session.State()).Equal(review.UndoStateArmed)

	got, ok := uc.Review.UndoSession(subject.ID)
	gt.B(t, ok).True()
	gt.Value(t, got).Equal(session)

	notifications := notifier.all()
	gt.Array(t, notifications).Length(1).Required()
	gt.Value(t, notifications[0].Message).Equal("Decision committed")
	gt.B(t, notifications[0].Indefinite).True()
	gt.Value(t, notifications[0].Action.Label).Equal("Undo")

	// The notification action is the undo itself.
	gt.NoError(t, notifications[0].Action.Run(ctx)).Required()

	reverted, err := uc.Subject.GetSubject(ctx, subject.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, reverted.Status).Equal(types.SubjectStatusReadyForReview)
}

func TestReview_SubmitRejectsSecondDecision(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	_, _, err := uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID: subject.ID,
		Kind:      types.DecisionKindApproved,
		DeciderID: "reviewer-1",
	})
	gt.NoError(t, err).Required()

	_, _, err = uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID: subject.ID,
		Kind:      types.DecisionKindAlternativesRequested,
		DeciderID: "reviewer-1",
	})
	gt.Error(t, err).Required()
	gt.B(t, errors.Is(err, usecase.ErrDecisionExists)).True()
}

func TestReview_UndoWithoutSession(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	err := uc.Review.Undo(ctx, subject.ID)
	gt.Error(t, err).Required()
	gt.B(t, errors.Is(err, usecase.ErrNoUndoWindow)).True()
}

func TestReview_UndoThroughUseCase(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	_, _, err := uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID:   subject.ID,
		Kind:        types.DecisionKindApprovedWithConstraint,
		Constraints: []string{"price"},
		DeciderID:   "reviewer-1",
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Review.Undo(ctx, subject.ID)).Required()

	history, err := uc.Review.History(ctx, subject.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, history).Length(0)

	// With the decision compensated the subject can be decided again.
	_, _, err = uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID: subject.ID,
		Kind:      types.DecisionKindAlternativesRequested,
		DeciderID: "reviewer-1",
	})
	gt.NoError(t, err)
}

func TestReview_SessionDroppedAfterUndo(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	_, _, err := uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID: subject.ID,
		Kind:      types.DecisionKindApproved,
		DeciderID: "reviewer-1",
	})
	gt.NoError(t, err).Required()

	_, ok := uc.Review.UndoSession(subject.ID)
	gt.B(t, ok).True()

	gt.NoError(t, uc.Review.Undo(ctx, subject.ID)).Required()

	// The resolved session is released rather than kept around forever.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := uc.Review.UndoSession(subject.ID); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("undo session still tracked after resolution")
		}
		time.Sleep(10 * time.Millisecond)
	}

	err = uc.Review.Undo(ctx, subject.ID)
	gt.Error(t, err).Required()
	gt.B(t, errors.Is(err, usecase.ErrNoUndoWindow)).True()
}

func TestReview_SessionDroppedAfterExpiry(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	_, session, err := uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID: subject.ID,
		Kind:      types.DecisionKindApproved,
		DeciderID: "reviewer-1",
	})
	gt.NoError(t, err).Required()

	<-session.Dismissed()
	gt.Value(t, session.State()).Equal(review.UndoStateExpired)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := uc.Review.UndoSession(subject.ID); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("undo session still tracked after expiry")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReview_LoadQueueCaching(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	queue, err := uc.Review.LoadQueue(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, queue).Length(1)

	// A subject created after the load is invisible until the cache is
	// invalidated.
	_, err = uc.Subject.CreateSubject(ctx, "Sunset legacy billing", "", "", "proposer-1")
	gt.NoError(t, err).Required()

	queue, err = uc.Review.LoadQueue(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, queue).Length(1)

	// A successful submit invalidates; the next load is fresh and no
	// longer contains the decided subject.
	_, _, err = uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID: subject.ID,
		Kind:      types.DecisionKindApproved,
		DeciderID: "reviewer-1",
	})
	gt.NoError(t, err).Required()

	queue, err = uc.Review.LoadQueue(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, queue).Length(1).Required()
	gt.Value(t, queue[0].Title).Equal("Sunset legacy billing")
}

func TestReview_DraftLifecycle(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	draft := &model.Draft{
		Kind:        types.DecisionKindApprovedWithConstraint,
		Constraints: []string{"price"},
		Context:     "cap at 100k",
	}
	gt.NoError(t, uc.Review.SaveDraftNow(ctx, subject.ID, draft)).Required()

	loaded, ok, err := uc.Review.LoadDraft(ctx, subject.ID)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, loaded.Context).Equal("cap at 100k")

	// First open restores, the second does not, reopening does again.
	restored, ok, err := uc.Review.OpenPanel(ctx, subject.ID)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, restored.Context).Equal("cap at 100k")

	_, ok, err = uc.Review.OpenPanel(ctx, subject.ID)
	gt.NoError(t, err)
	gt.B(t, ok).False()

	uc.Review.ClosePanel(subject.ID)
	_, ok, err = uc.Review.OpenPanel(ctx, subject.ID)
	gt.NoError(t, err)
	gt.B(t, ok).True()

	gt.NoError(t, uc.Review.DiscardDraft(ctx, subject.ID)).Required()
	_, ok, err = uc.Review.LoadDraft(ctx, subject.ID)
	gt.NoError(t, err)
	gt.B(t, ok).False()
}

func TestReview_DraftClearedBySubmit(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	gt.NoError(t, uc.Review.SaveDraftNow(ctx, subject.ID, &model.Draft{Context: "leftover"}))

	_, _, err := uc.Review.Submit(ctx, review.DecisionInput{
		SubjectID: subject.ID,
		Kind:      types.DecisionKindApproved,
		DeciderID: "reviewer-1",
	})
	gt.NoError(t, err).Required()

	_, ok, err := uc.Review.LoadDraft(ctx, subject.ID)
	gt.NoError(t, err)
	gt.B(t, ok).False()
}

func TestReview_DebouncedDraftSave(t *testing.T) {
	ctx := context.Background()
	uc, _, subject := setupReview(t)

	uc.Review.SaveDraft(ctx, subject.ID, &model.Draft{Context: "first"})
	uc.Review.SaveDraft(ctx, subject.ID, &model.Draft{Context: "second"})

	time.Sleep(150 * time.Millisecond)

	loaded, ok, err := uc.Review.LoadDraft(ctx, subject.ID)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, loaded.Context).Equal("second")
}
