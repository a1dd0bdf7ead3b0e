package model

import (
	"time"

	"github.com/ward-lab/themis/pkg/domain/types"
)

// Draft is an unsubmitted, locally-held candidate decision for one
// subject. It never carries a decision ID because it precedes commit.
// Drafts are advisory: no validation is applied until submit.
type Draft struct {
	Kind        types.DecisionKind `json:"kind,omitempty"`
	Constraints []string           `json:"constraints,omitempty"`
	Context     string             `json:"context,omitempty" masq:"secret"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// Clone returns a deep copy of the draft
func (d *Draft) Clone() *Draft {
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
