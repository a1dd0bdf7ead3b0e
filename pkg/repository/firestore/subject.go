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

type subjectDocument struct {
	ID             string    `firestore:"id"`
	Title          string    `firestore:"title"`
	Body           string    `firestore:"body"`
	Recommendation string    `firestore:"recommendation"`
	Status         string    `firestore:"status"`
	ProposerID     string    `firestore:"proposer_id"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

type subjectRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSubjectRepository(client *firestore.Client) *subjectRepository {
	return &subjectRepository{client: client}
}

func (r *subjectRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_subjects"
	}
	return "subjects"
}

func toSubjectDocument(subject *model.Subject) *subjectDocument {
	return &subjectDocument{
		ID:             subject.ID.String(),
		Title:          subject.Title,
		Body:           subject.Body,
		Recommendation: subject.Recommendation,
		Status:         subject.Status.String(),
		ProposerID:     subject.ProposerID,
		CreatedAt:      subject.CreatedAt,
		UpdatedAt:      subject.UpdatedAt,
	}
}

func (d *subjectDocument) toModel() *model.Subject {
	return &model.Subject{
		ID:             types.SubjectID(d.ID),
		Title:          d.Title,
		Body:           d.Body,
		Recommendation: d.Recommendation,
		Status:         types.SubjectStatus(d.Status),
		ProposerID:     d.ProposerID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *subjectRepository) Create(ctx context.Context, subject *model.Subject) (*model.Subject, error) {
	created := subject.Clone()
	if created.ID == "" {
		created.ID = types.NewSubjectID()
	}
	if created.Status == "" {
		created.Status = types.SubjectStatusReadyForReview
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	doc := toSubjectDocument(created)
	if _, err := r.client.Collection(r.collection()).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, classify(err, "failed to create subject", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *subjectRepository) Get(ctx context.Context, id types.SubjectID) (*model.Subject, error) {
	snap, err := r.client.Collection(r.collection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrSubjectNotFound, "subject not found", goerr.V("id", id))
		}
		return nil, classify(err, "failed to get subject", goerr.V("id", id))
	}

	var doc subjectDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode subject document", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *subjectRepository) List(ctx context.Context) ([]*model.Subject, error) {
	return r.query(ctx, r.client.Collection(r.collection()).OrderBy("created_at", firestore.Asc))
}

func (r *subjectRepository) ListByStatus(ctx context.Context, st types.SubjectStatus) ([]*model.Subject, error) {
	q := r.client.Collection(r.collection()).
		Where("status", "==", st.String()).
		OrderBy("created_at", firestore.Asc)
	return r.query(ctx, q)
}

func (r *subjectRepository) query(ctx context.Context, q firestore.Query) ([]*model.Subject, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var result []*model.Subject
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err, "failed to iterate subjects")
		}

		var doc subjectDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode subject document")
		}
		result = append(result, doc.toModel())
	}

	return result, nil
}

func (r *subjectRepository) Update(ctx context.Context, subject *model.Subject) (*model.Subject, error) {
	existing, err := r.Get(ctx, subject.ID)
	if err != nil {
		return nil, err
	}

	updated := subject.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	doc := toSubjectDocument(updated)
	if _, err := r.client.Collection(r.collection()).Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, classify(err, "failed to update subject", goerr.V("id", subject.ID))
	}

	return updated, nil
}

func (r *subjectRepository) UpdateStatus(ctx context.Context, id types.SubjectID, st types.SubjectStatus) (*model.Subject, error) {
	if !st.IsValid() {
		return nil, goerr.New("invalid subject status",
			goerr.V("id", id), goerr.V("status", st), goerr.T(types.ErrTagValidation))
	}

	ref := r.client.Collection(r.collection()).Doc(id.String())
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: st.String()},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrSubjectNotFound, "subject not found", goerr.V("id", id))
		}
		return nil, classify(err, "failed to update subject status",
			goerr.V("id", id), goerr.V("status", st))
	}

	return r.Get(ctx, id)
}

func (r *subjectRepository) Delete(ctx context.Context, id types.SubjectID) error {
	if _, err := r.client.Collection(r.collection()).Doc(id.String()).Delete(ctx); err != nil {
		return classify(err, "failed to delete subject", goerr.V("id", id))
	}
	return nil
}
