package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"github.com/ward-lab/themis/pkg/review"
)

func TestDraftWriter_BurstCollapsesToOneSave(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()
	writer := review.NewDraftWriter(drafts, review.WithDebounceDelay(100*time.Millisecond))
	subjectID := types.NewSubjectID()

	// The user selects a constraint, then types; each edit reschedules.
	writer.Schedule(subjectID, &model.Draft{
		Constraints: []string{"price"},
	})
	writer.Schedule(subjectID, &model.Draft{
		Constraints: []string{"price"},
		Context:     "cap at",
	})
	writer.Schedule(subjectID, &model.Draft{
		Constraints: []string{"price"},
		Context:     "cap at 100k",
	})

	time.Sleep(250 * time.Millisecond)

	gt.Number(t, writer.SaveCount()).Equal(1)

	draft, ok, err := drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Array(t, draft.Constraints).Equal([]string{"price"})
	gt.Value(t, draft.Context).Equal("cap at 100k")
}

func TestDraftWriter_CancelOnSubmit(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()
	writer := review.NewDraftWriter(drafts, review.WithDebounceDelay(80*time.Millisecond))
	subjectID := types.NewSubjectID()

	writer.Schedule(subjectID, &model.Draft{Context: "about to submit"})
	writer.Cancel(subjectID)

	time.Sleep(200 * time.Millisecond)

	gt.Number(t, writer.SaveCount()).Equal(0)
	_, ok, err := drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err)
	gt.B(t, ok).False()
}

func TestDraftWriter_SubjectsDebounceIndependently(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()
	writer := review.NewDraftWriter(drafts, review.WithDebounceDelay(80*time.Millisecond))
	first := types.NewSubjectID()
	second := types.NewSubjectID()

	// Editing a second subject inside the first one's idle window must
	// not supersede the first one's pending write.
	writer.Schedule(first, &model.Draft{Context: "notes for first"})
	writer.Schedule(second, &model.Draft{Context: "notes for second"})

	time.Sleep(250 * time.Millisecond)

	gt.Number(t, writer.SaveCount()).Equal(2)

	draft, ok, err := drafts.GetDraft(ctx, first)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, draft.Context).Equal("notes for first")

	draft, ok, err = drafts.GetDraft(ctx, second)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, draft.Context).Equal("notes for second")
}

func TestDraftWriter_CancelIsScopedToSubject(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()
	writer := review.NewDraftWriter(drafts, review.WithDebounceDelay(80*time.Millisecond))
	submitted := types.NewSubjectID()
	untouched := types.NewSubjectID()

	writer.Schedule(submitted, &model.Draft{Context: "superseded by submit"})
	writer.Schedule(untouched, &model.Draft{Context: "still pending"})
	writer.Cancel(submitted)

	time.Sleep(250 * time.Millisecond)

	gt.Number(t, writer.SaveCount()).Equal(1)

	_, ok, err := drafts.GetDraft(ctx, submitted)
	gt.NoError(t, err)
	gt.B(t, ok).False()

	draft, ok, err := drafts.GetDraft(ctx, untouched)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, draft.Context).Equal("still pending")
}

func TestDraftWriter_CancelAllDropsEveryPendingWrite(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()
	writer := review.NewDraftWriter(drafts, review.WithDebounceDelay(80*time.Millisecond))
	first := types.NewSubjectID()
	second := types.NewSubjectID()

	writer.Schedule(first, &model.Draft{Context: "a"})
	writer.Schedule(second, &model.Draft{Context: "b"})
	writer.CancelAll()

	time.Sleep(200 * time.Millisecond)

	gt.Number(t, writer.SaveCount()).Equal(0)
	_, ok, err := drafts.GetDraft(ctx, first)
	gt.NoError(t, err)
	gt.B(t, ok).False()
	_, ok, err = drafts.GetDraft(ctx, second)
	gt.NoError(t, err)
	gt.B(t, ok).False()
}

func TestDraftWriter_LastSavedAt(t *testing.T) {
	drafts := review.NewDrafts()
	writer := review.NewDraftWriter(drafts, review.WithDebounceDelay(30*time.Millisecond))

	gt.B(t, writer.LastSavedAt().IsZero()).True()

	writer.Schedule(types.NewSubjectID(), &model.Draft{Context: "x"})
	time.Sleep(150 * time.Millisecond)

	gt.B(t, writer.LastSavedAt().IsZero()).False()
}
