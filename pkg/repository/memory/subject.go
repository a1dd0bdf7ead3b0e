package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

type subjectRepository struct {
	mu       sync.RWMutex
	subjects map[types.SubjectID]*model.Subject
}

func newSubjectRepository() *subjectRepository {
	return &subjectRepository{
		subjects: make(map[types.SubjectID]*model.Subject),
	}
}

func (r *subjectRepository) Create(ctx context.Context, subject *model.Subject) (*model.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := subject.Clone()
	if created.ID == "" {
		created.ID = types.NewSubjectID()
	}
	if created.Status == "" {
		created.Status = types.SubjectStatusReadyForReview
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.subjects[created.ID] = created
	return created.Clone(), nil
}

func (r *subjectRepository) Get(ctx context.Context, id types.SubjectID) (*model.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subject, ok := r.subjects[id]
	if !ok {
		return nil, goerr.Wrap(types.ErrSubjectNotFound, "subject not found", goerr.V("id", id))
	}
	return subject.Clone(), nil
}

func (r *subjectRepository) List(ctx context.Context) ([]*model.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Subject, 0, len(r.subjects))
	for _, s := range r.subjects {
		result = append(result, s.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *subjectRepository) ListByStatus(ctx context.Context, status types.SubjectStatus) ([]*model.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Subject
	for _, s := range r.subjects {
		if s.Status == status {
			result = append(result, s.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *subjectRepository) Update(ctx context.Context, subject *model.Subject) (*model.Subject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.subjects[subject.ID]
	if !ok {
		return nil, goerr.Wrap(types.ErrSubjectNotFound, "subject not found", goerr.V("id", subject.ID))
	}

	updated := subject.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.subjects[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *subjectRepository) UpdateStatus(ctx context.Context, id types.SubjectID, status types.SubjectStatus) (*model.Subject, error) {
	if !status.IsValid() {
		return nil, goerr.New("invalid subject status",
			goerr.V("id", id), goerr.V("status", status), goerr.T(types.ErrTagValidation))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.subjects[id]
	if !ok {
		return nil, goerr.Wrap(types.ErrSubjectNotFound, "subject not found", goerr.V("id", id))
	}

	existing.Status = status
	existing.UpdatedAt = time.Now().UTC()
	return existing.Clone(), nil
}

func (r *subjectRepository) Delete(ctx context.Context, id types.SubjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subjects[id]; !ok {
		return goerr.Wrap(types.ErrSubjectNotFound, "subject not found", goerr.V("id", id))
	}

	delete(r.subjects, id)
	return nil
}
