package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// SubjectUseCase covers the proposer side: drafting strategic questions
// with a recommendation and evidence, and putting them up for review.
type SubjectUseCase struct {
	repo interfaces.Repository
}

// NewSubjectUseCase creates the proposer use case
func NewSubjectUseCase(repo interfaces.Repository) *SubjectUseCase {
	return &SubjectUseCase{repo: repo}
}

// CreateSubject creates a question in ready_for_review status
func (uc *SubjectUseCase) CreateSubject(ctx context.Context, title, body, recommendation, proposerID string) (*model.Subject, error) {
	if title == "" {
		return nil, goerr.New("subject title is required", goerr.T(types.ErrTagValidation))
	}
	if proposerID == "" {
		return nil, goerr.New("proposer identity is required", goerr.T(types.ErrTagAuth))
	}

	subject := &model.Subject{
		Title:          title,
		Body:           body,
		Recommendation: recommendation,
		Status:         types.SubjectStatusReadyForReview,
		ProposerID:     proposerID,
	}

	created, err := uc.repo.Subject().Create(ctx, subject)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create subject")
	}

	return created, nil
}

// UpdateSubject updates the content fields of a subject. Status is not
// touched here; it only moves through the review mutator.
func (uc *SubjectUseCase) UpdateSubject(ctx context.Context, id types.SubjectID, title, body, recommendation *string) (*model.Subject, error) {
	existing, err := uc.repo.Subject().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get subject", goerr.V("id", id))
	}

	if title != nil {
		if *title == "" {
			return nil, goerr.New("subject title cannot be empty", goerr.T(types.ErrTagValidation))
		}
		existing.Title = *title
	}
	if body != nil {
		existing.Body = *body
	}
	if recommendation != nil {
		existing.Recommendation = *recommendation
	}

	updated, err := uc.repo.Subject().Update(ctx, existing)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update subject", goerr.V("id", id))
	}

	return updated, nil
}

// GetSubject returns one subject
func (uc *SubjectUseCase) GetSubject(ctx context.Context, id types.SubjectID) (*model.Subject, error) {
	subject, err := uc.repo.Subject().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get subject", goerr.V("id", id))
	}
	return subject, nil
}

// ListSubjects returns all subjects in creation order
func (uc *SubjectUseCase) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	subjects, err := uc.repo.Subject().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list subjects")
	}
	return subjects, nil
}

// ArchiveSubject takes a subject out of circulation
func (uc *SubjectUseCase) ArchiveSubject(ctx context.Context, id types.SubjectID) (*model.Subject, error) {
	subject, err := uc.repo.Subject().UpdateStatus(ctx, id, types.SubjectStatusArchived)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to archive subject", goerr.V("id", id))
	}
	return subject, nil
}
