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

type decisionRepository struct {
	mu        sync.RWMutex
	decisions map[types.DecisionID]*model.Decision
}

func newDecisionRepository() *decisionRepository {
	return &decisionRepository{
		decisions: make(map[types.DecisionID]*model.Decision),
	}
}

func (r *decisionRepository) Create(ctx context.Context, decision *model.Decision) (*model.Decision, error) {
	if !decision.Kind.IsValid() {
		return nil, goerr.New("invalid decision kind",
			goerr.V("kind", decision.Kind), goerr.T(types.ErrTagValidation))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := decision.Clone()
	created.ID = types.NewDecisionID()
	created.CreatedAt = time.Now().UTC()

	r.decisions[created.ID] = created
	return created.Clone(), nil
}

func (r *decisionRepository) Get(ctx context.Context, id types.DecisionID) (*model.Decision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decision, ok := r.decisions[id]
	if !ok {
		return nil, goerr.Wrap(types.ErrDecisionNotFound, "decision not found", goerr.V("id", id))
	}
	return decision.Clone(), nil
}

func (r *decisionRepository) GetBySubject(ctx context.Context, subjectID types.SubjectID) ([]*model.Decision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Decision
	for _, d := range r.decisions {
		if d.SubjectID == subjectID {
			result = append(result, d.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *decisionRepository) Update(ctx context.Context, decision *model.Decision) (*model.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.decisions[decision.ID]
	if !ok {
		return nil, goerr.Wrap(types.ErrDecisionNotFound, "decision not found", goerr.V("id", decision.ID))
	}

	updated := decision.Clone()
	updated.CreatedAt = existing.CreatedAt

	r.decisions[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *decisionRepository) Delete(ctx context.Context, id types.DecisionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.decisions[id]; !ok {
		return goerr.Wrap(types.ErrDecisionNotFound, "decision not found", goerr.V("id", id))
	}

	delete(r.decisions, id)
	return nil
}
