package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore is the production remote store backend
type Firestore struct {
	client   *firestore.Client
	subject  *subjectRepository
	decision *decisionRepository
}

var _ interfaces.Repository = &Firestore{}

// Option is a functional option for Firestore
type Option func(*Firestore)

// WithCollectionPrefix namespaces the collections, used by tests sharing
// one database.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.subject.collectionPrefix = prefix
		f.decision.collectionPrefix = prefix
	}
}

// New creates a Firestore-backed repository
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:   client,
		subject:  newSubjectRepository(client),
		decision: newDecisionRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Subject() interfaces.SubjectRepository {
	return f.subject
}

func (f *Firestore) Decision() interfaces.DecisionRepository {
	return f.decision
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

// classify maps a firestore call failure onto the error taxonomy so the
// mutation layer can decide whether to offer a retry.
func classify(err error, msg string, values ...goerr.Option) error {
	opts := values
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		opts = append(opts, goerr.T(types.ErrTagTransient))
	case codes.PermissionDenied, codes.Unauthenticated:
		opts = append(opts, goerr.T(types.ErrTagAuth))
	case codes.InvalidArgument, codes.FailedPrecondition:
		opts = append(opts, goerr.T(types.ErrTagValidation))
	}
	return goerr.Wrap(err, msg, opts...)
}
