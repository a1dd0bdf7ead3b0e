package interfaces

import (
	"context"

	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// DraftStore holds zero-or-one unsubmitted draft per subject. The
// in-memory implementation is the default; drafts there are a liveness
// convenience and do not survive process restart. A durable backend may
// be swapped in when cross-session drafts are wanted.
type DraftStore interface {
	SetDraft(ctx context.Context, subjectID types.SubjectID, draft *model.Draft) error
	GetDraft(ctx context.Context, subjectID types.SubjectID) (*model.Draft, bool, error)
	ClearDraft(ctx context.Context, subjectID types.SubjectID) error
}
