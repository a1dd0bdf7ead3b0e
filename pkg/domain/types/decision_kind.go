package types

import "fmt"

// DecisionKind represents the kind of decision a reviewer can make
type DecisionKind string

const (
	DecisionKindApproved               DecisionKind = "approved"
	DecisionKindApprovedWithConstraint DecisionKind = "approved_with_constraint"
	DecisionKindAlternativesRequested  DecisionKind = "alternatives_requested"
)

// AllDecisionKinds returns all valid decision kinds
func AllDecisionKinds() []DecisionKind {
	return []DecisionKind{
		DecisionKindApproved,
		DecisionKindApprovedWithConstraint,
		DecisionKindAlternativesRequested,
	}
}

// IsValid checks if the decision kind is valid
func (k DecisionKind) IsValid() bool {
	switch k {
	case DecisionKindApproved,
		DecisionKindApprovedWithConstraint,
		DecisionKindAlternativesRequested:
		return true
	default:
		return false
	}
}

// String returns the string representation of the decision kind
func (k DecisionKind) String() string {
	return string(k)
}

// SubjectStatus returns the subject status a committed decision of this
// kind implies. The status transition is what the decision represents;
// there is no separate join between the two.
func (k DecisionKind) SubjectStatus() SubjectStatus {
	switch k {
	case DecisionKindApproved, DecisionKindApprovedWithConstraint:
		return SubjectStatusApproved
	case DecisionKindAlternativesRequested:
		return SubjectStatusExploringAlternatives
	default:
		return ""
	}
}

// ParseDecisionKind parses a string into a DecisionKind
func ParseDecisionKind(s string) (DecisionKind, error) {
	kind := DecisionKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid decision kind: %s", s)
	}
	return kind, nil
}
