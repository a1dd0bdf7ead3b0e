package model

import (
	"time"

	"github.com/ward-lab/themis/pkg/domain/types"
)

// Subject represents a strategic question awaiting a decision. It is
// created by the proposer role; the review layer only ever mutates its
// Status, and only through the optimistic mutator.
type Subject struct {
	ID             types.SubjectID
	Title          string
	Body           string
	Recommendation string
	Status         types.SubjectStatus
	ProposerID     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy of the subject
func (s *Subject) Clone() *Subject {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}

// CloneSubjects deep-copies a subject collection, preserving order
func CloneSubjects(subjects []*Subject) []*Subject {
	if subjects == nil {
		return nil
	}
	copied := make([]*Subject, len(subjects))
	for i, s := range subjects {
		copied[i] = s.Clone()
	}
	return copied
}
