package types

import "fmt"

// SubjectStatus represents the review status of a subject
type SubjectStatus string

const (
	SubjectStatusReadyForReview        SubjectStatus = "ready_for_review"
	SubjectStatusApproved              SubjectStatus = "approved"
	SubjectStatusExploringAlternatives SubjectStatus = "exploring_alternatives"
	SubjectStatusDeclined              SubjectStatus = "declined"
	SubjectStatusArchived              SubjectStatus = "archived"
)

// AllSubjectStatuses returns all valid subject statuses
func AllSubjectStatuses() []SubjectStatus {
	return []SubjectStatus{
		SubjectStatusReadyForReview,
		SubjectStatusApproved,
		SubjectStatusExploringAlternatives,
		SubjectStatusDeclined,
		SubjectStatusArchived,
	}
}

// IsValid checks if the subject status is valid
func (s SubjectStatus) IsValid() bool {
	switch s {
	case SubjectStatusReadyForReview,
		SubjectStatusApproved,
		SubjectStatusExploringAlternatives,
		SubjectStatusDeclined,
		SubjectStatusArchived:
		return true
	default:
		return false
	}
}

// String returns the string representation of the subject status
func (s SubjectStatus) String() string {
	return string(s)
}

// ParseSubjectStatus parses a string into a SubjectStatus
func ParseSubjectStatus(s string) (SubjectStatus, error) {
	status := SubjectStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid subject status: %s", s)
	}
	return status, nil
}
