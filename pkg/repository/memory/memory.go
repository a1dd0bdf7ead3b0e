package memory

import (
	"github.com/ward-lab/themis/pkg/domain/interfaces"
)

// Memory is an in-memory implementation of interfaces.Repository for
// development mode and tests.
type Memory struct {
	subject  *subjectRepository
	decision *decisionRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an empty in-memory repository
func New() *Memory {
	return &Memory{
		subject:  newSubjectRepository(),
		decision: newDecisionRepository(),
	}
}

func (m *Memory) Subject() interfaces.SubjectRepository {
	return m.subject
}

func (m *Memory) Decision() interfaces.DecisionRepository {
	return m.decision
}

func (m *Memory) Close() error {
	return nil
}
