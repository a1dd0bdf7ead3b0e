package interfaces

// Repository defines the interface for the remote data stores. Row-level
// authorization and persistence details live behind this boundary.
type Repository interface {
	Subject() SubjectRepository
	Decision() DecisionRepository

	// Close releases any underlying client resources
	Close() error
}
