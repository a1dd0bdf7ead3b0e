package model

import (
	"time"

	"github.com/ward-lab/themis/pkg/domain/types"
)

// Decision represents the outcome record created when a subject is acted
// on. ID is assigned by the remote store on creation. At most one active
// decision exists per subject.
type Decision struct {
	ID          types.DecisionID
	SubjectID   types.SubjectID
	Kind        types.DecisionKind
	Constraints []string
	Context     string
	DeciderID   string
	CreatedAt   time.Time
}

// Clone returns a deep copy of the decision
func (d *Decision) Clone() *Decision {
	if d == nil {
		return nil
	}
	copied := *d
	if d.Constraints != nil {
		copied.Constraints = make([]string, len(d.Constraints))
		copy(copied.Constraints, d.Constraints)
	}
	return &copied
}
