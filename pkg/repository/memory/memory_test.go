package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"github.com/ward-lab/themis/pkg/repository/memory"
)

func TestSubjectRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	created, err := repo.Subject().Create(ctx, &model.Subject{
		Title:      "Expand to EMEA",
		ProposerID: "proposer-1",
	})
	gt.NoError(t, err).Required()
	gt.B(t, created.ID != "").True()
	gt.Value(t, created.Status).Equal(types.SubjectStatusReadyForReview)
	gt.B(t, created.CreatedAt.IsZero()).False()

	got, err := repo.Subject().Get(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Title).Equal("Expand to EMEA")

	got.Title = "Expand to EMEA and APAC"
	updated, err := repo.Subject().Update(ctx, got)
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Title).Equal("Expand to EMEA and APAC")
	gt.Value(t, updated.CreatedAt).Equal(created.CreatedAt)

	gt.NoError(t, repo.Subject().Delete(ctx, created.ID)).Required()

	_, err = repo.Subject().Get(ctx, created.ID)
	gt.Error(t, err).Required()
	gt.B(t, errors.Is(err, types.ErrSubjectNotFound)).True()
}

func TestSubjectRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	missing := types.NewSubjectID()

	_, err := repo.Subject().Get(ctx, missing)
	gt.B(t, errors.Is(err, types.ErrSubjectNotFound)).True()

	_, err = repo.Subject().Update(ctx, &model.Subject{ID: missing, Title: "x"})
	gt.B(t, errors.Is(err, types.ErrSubjectNotFound)).True()

	_, err = repo.Subject().UpdateStatus(ctx, missing, types.SubjectStatusApproved)
	gt.B(t, errors.Is(err, types.ErrSubjectNotFound)).True()

	err = repo.Subject().Delete(ctx, missing)
	gt.B(t, errors.Is(err, types.ErrSubjectNotFound)).True()
}

func TestSubjectRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	created, err := repo.Subject().Create(ctx, &model.Subject{Title: "q"})
	gt.NoError(t, err).Required()

	updated, err := repo.Subject().UpdateStatus(ctx, created.ID, types.SubjectStatusApproved)
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Status).Equal(types.SubjectStatusApproved)

	_, err = repo.Subject().UpdateStatus(ctx, created.ID, types.SubjectStatus("vetoed"))
	gt.Error(t, err).Required()
	gt.B(t, goerr.HasTag(err, types.ErrTagValidation)).True()
}

func TestSubjectRepository_ListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	a, err := repo.Subject().Create(ctx, &model.Subject{Title: "a"})
	gt.NoError(t, err).Required()
	b, err := repo.Subject().Create(ctx, &model.Subject{Title: "b"})
	gt.NoError(t, err).Required()

	_, err = repo.Subject().UpdateStatus(ctx, a.ID, types.SubjectStatusArchived)
	gt.NoError(t, err).Required()

	ready, err := repo.Subject().ListByStatus(ctx, types.SubjectStatusReadyForReview)
	gt.NoError(t, err).Required()
	gt.Array(t, ready).Length(1).Required()
	gt.Value(t, ready[0].ID).Equal(b.ID)
}

func TestDecisionRepository_CreateAndGetBySubject(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	subjectID := types.NewSubjectID()

	first, err := repo.Decision().Create(ctx, &model.Decision{
		SubjectID:   subjectID,
		Kind:        types.DecisionKindApprovedWithConstraint,
		Constraints: []string{"price"},
		DeciderID:   "reviewer-1",
	})
	gt.NoError(t, err).Required()
	gt.B(t, first.ID != "").True()

	decisions, err := repo.Decision().GetBySubject(ctx, subjectID)
	gt.NoError(t, err).Required()
	gt.Array(t, decisions).Length(1).Required()
	gt.Value(t, decisions[0].ID).Equal(first.ID)

	other, err := repo.Decision().GetBySubject(ctx, types.NewSubjectID())
	gt.NoError(t, err)
	gt.Array(t, other).Length(0)
}

func TestDecisionRepository_RejectsInvalidKind(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	_, err := repo.Decision().Create(ctx, &model.Decision{
		SubjectID: types.NewSubjectID(),
		Kind:      types.DecisionKind("vetoed"),
	})
	gt.Error(t, err).Required()
	gt.B(t, goerr.HasTag(err, types.ErrTagValidation)).True()
}

func TestDecisionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	created, err := repo.Decision().Create(ctx, &model.Decision{
		SubjectID: types.NewSubjectID(),
		Kind:      types.DecisionKindApproved,
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, repo.Decision().Delete(ctx, created.ID)).Required()

	_, err = repo.Decision().Get(ctx, created.ID)
	gt.B(t, errors.Is(err, types.ErrDecisionNotFound)).True()

	err = repo.Decision().Delete(ctx, created.ID)
	gt.B(t, errors.Is(err, types.ErrDecisionNotFound)).True()
}

func TestDecisionRepository_ClonesOnWriteAndRead(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	input := &model.Decision{
		SubjectID:   types.NewSubjectID(),
		Kind:        types.DecisionKindApprovedWithConstraint,
		Constraints: []string{"price"},
	}
	created, err := repo.Decision().Create(ctx, input)
	gt.NoError(t, err).Required()

	input.Constraints[0] = "mutated"
	created.Constraints[0] = "also mutated"

	stored, err := repo.Decision().Get(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, stored.Constraints[0]).Equal("price")
}
