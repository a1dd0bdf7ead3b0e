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

func TestDrafts_Lifecycle(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()
	subjectID := types.NewSubjectID()

	_, ok, err := drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err)
	gt.B(t, ok).False()

	err = drafts.SetDraft(ctx, subjectID, &model.Draft{
		Kind:        types.DecisionKindApprovedWithConstraint,
		Constraints: []string{"price"},
		Context:     "cap at 100k",
	})
	gt.NoError(t, err).Required()

	draft, ok, err := drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, draft.Kind).Equal(types.DecisionKindApprovedWithConstraint)
	gt.Array(t, draft.Constraints).Equal([]string{"price"})
	gt.Value(t, draft.Context).Equal("cap at 100k")
	gt.B(t, draft.UpdatedAt.IsZero()).False()

	gt.NoError(t, drafts.ClearDraft(ctx, subjectID))

	_, ok, err = drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err)
	gt.B(t, ok).False()
}

func TestDrafts_OverwriteWholesale(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()
	subjectID := types.NewSubjectID()

	gt.NoError(t, drafts.SetDraft(ctx, subjectID, &model.Draft{
		Kind:        types.DecisionKindApprovedWithConstraint,
		Constraints: []string{"price", "volume"},
		Context:     "original",
	}))
	gt.NoError(t, drafts.SetDraft(ctx, subjectID, &model.Draft{
		Kind: types.DecisionKindApproved,
	}))

	draft, ok, err := drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, draft.Kind).Equal(types.DecisionKindApproved)
	gt.Array(t, draft.Constraints).Length(0)
	gt.Value(t, draft.Context).Equal("")
}

func TestDrafts_ClearAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()

	gt.NoError(t, drafts.ClearDraft(ctx, types.NewSubjectID()))
}

func TestDrafts_StampsLastModified(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	drafts := review.NewDrafts(review.WithDraftsClock(func() time.Time { return fixed }))
	subjectID := types.NewSubjectID()

	gt.NoError(t, drafts.SetDraft(ctx, subjectID, &model.Draft{Context: "note"}))

	draft, ok, err := drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err).Required()
	gt.B(t, ok).True()
	gt.Value(t, draft.UpdatedAt).Equal(fixed)
}

func TestDrafts_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	drafts := review.NewDrafts()
	subjectID := types.NewSubjectID()

	gt.NoError(t, drafts.SetDraft(ctx, subjectID, &model.Draft{
		Constraints: []string{"risk"},
	}))

	draft, _, err := drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err).Required()
	draft.Constraints[0] = "mutated"

	again, _, err := drafts.GetDraft(ctx, subjectID)
	gt.NoError(t, err).Required()
	gt.Value(t, again.Constraints[0]).Equal("risk")
}
