package interfaces

import (
	"context"

	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// DecisionRepository defines the interface for Decision data access
type DecisionRepository interface {
	Create(ctx context.Context, decision *model.Decision) (*model.Decision, error)
	Get(ctx context.Context, id types.DecisionID) (*model.Decision, error)
	GetBySubject(ctx context.Context, subjectID types.SubjectID) ([]*model.Decision, error)
	Update(ctx context.Context, decision *model.Decision) (*model.Decision, error)
	Delete(ctx context.Context, id types.DecisionID) error
}
