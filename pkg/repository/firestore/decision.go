package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type decisionDocument struct {
	ID          string    `firestore:"id"`
	SubjectID   string    `firestore:"subject_id"`
	Kind        string    `firestore:"decision_kind"`
	Constraints []string  `firestore:"constraints"`
	Context     string    `firestore:"context"`
	DeciderID   string    `firestore:"decider_id"`
	CreatedAt   time.Time `firestore:"created_at"`
}

type decisionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDecisionRepository(client *firestore.Client) *decisionRepository {
	return &decisionRepository{client: client}
}

func (r *decisionRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_decisions"
	}
	return "decisions"
}

func toDecisionDocument(decision *model.Decision) *decisionDocument {
	return &decisionDocument{
		ID:          decision.ID.String(),
		SubjectID:   decision.SubjectID.String(),
		Kind:        decision.Kind.String(),
		Constraints: decision.Constraints,
		Context:     decision.Context,
		DeciderID:   decision.DeciderID,
		CreatedAt:   decision.CreatedAt,
	}
}

func (d *decisionDocument) toModel() *model.Decision {
	return &model.Decision{
		ID:          types.DecisionID(d.ID),
		SubjectID:   types.SubjectID(d.SubjectID),
		Kind:        types.DecisionKind(d.Kind),
		Constraints: d.Constraints,
		Context:     d.Context,
		DeciderID:   d.DeciderID,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *decisionRepository) Create(ctx context.Context, decision *model.Decision) (*model.Decision, error) {
	if !decision.Kind.IsValid() {
		return nil, goerr.New("invalid decision kind",
			goerr.V("kind", decision.Kind), goerr.T(types.ErrTagValidation))
	}

	created := decision.Clone()
	created.ID = types.NewDecisionID()
	created.CreatedAt = time.Now().UTC()

	doc := toDecisionDocument(created)
	if _, err := r.client.Collection(r.collection()).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, classify(err, "failed to create decision",
			goerr.V("subjectID", decision.SubjectID))
	}

	return created, nil
}

func (r *decisionRepository) Get(ctx context.Context, id types.DecisionID) (*model.Decision, error) {
	snap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrDecisionNotFound, "decision not found", goerr.V("id", id))
		}
		return nil, classify(err, "failed to get decision", goerr.V("id", id))
	}

	var doc decisionDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode decision document", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *decisionRepository) GetBySubject(ctx context.Context, subjectID types.SubjectID) ([]*model.Decision, error) {
	iter := r.client.Collection(r.collection()).
		Where("subject_id", "==", subjectID.String()).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Decision
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err, "failed to iterate decisions",
				goerr.V("subjectID", subjectID))
		}

		var doc decisionDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode decision document")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}

func (r *decisionRepository) Update(ctx context.Context, decision *model.Decision) (*model.Decision, error) {
	existing, err := r.Get(ctx, decision.ID)
	if err != nil {
		return nil, err
	}

	updated := decision.Clone()
	updated.CreatedAt = existing.CreatedAt

	doc := toDecisionDocument(updated)
	if _, err := r.client.Collection(r.collection()).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, classify(err, "failed to update decision", goerr.V("id", decision.ID))
	}

	return updated, nil
}

func (r *decisionRepository) Delete(ctx context.Context, id types.DecisionID) error {
	if _, err := r.client.Collection(r.collection()).Doc(id.String()).Delete(ctx); err != nil {
		return classify(err, "failed to delete decision", goerr.V("id", id))
	}
	return nil
}
