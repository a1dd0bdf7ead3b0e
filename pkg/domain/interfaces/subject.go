package interfaces

import (
	"context"

	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// SubjectRepository defines the interface for Subject data access
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) (*model.Subject, error)
	Get(ctx context.Context, id types.SubjectID) (*model.Subject, error)
	List(ctx context.Context) ([]*model.Subject, error)
	ListByStatus(ctx context.Context, status types.SubjectStatus) ([]*model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) (*model.Subject, error)
	UpdateStatus(ctx context.Context, id types.SubjectID, status types.SubjectStatus) (*model.Subject, error)
	Delete(ctx context.Context, id types.SubjectID) error
}
