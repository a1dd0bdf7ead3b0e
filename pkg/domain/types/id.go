package types

import "github.com/google/uuid"

// SubjectID identifies a subject (a question pending decision)
type SubjectID string

// NewSubjectID generates a new random subject ID
func NewSubjectID() SubjectID {
	return SubjectID(uuid.New().String())
}

// String returns the string representation of the subject ID
func (x SubjectID) String() string {
	return string(x)
}

// DecisionID identifies a decision record. It is assigned by the remote
// store on creation, so a decision has no ID until it is committed.
type DecisionID string

// NewDecisionID generates a new random decision ID
func NewDecisionID() DecisionID {
	return DecisionID(uuid.New().String())
}

// String returns the string representation of the decision ID
func (x DecisionID) String() string {
	return string(x)
}
