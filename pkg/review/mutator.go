package review

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
	"github.com/ward-lab/themis/pkg/utils/logging"
)

// DecisionInput carries one submit action from the reviewer
type DecisionInput struct {
	SubjectID   types.SubjectID
	Kind        types.DecisionKind
	Constraints []string
	Context     string
	DeciderID   string
}

// Commit is the result of a successful mutation. PrevStatus is the
// subject status before the decision, needed by the undo window to
// compensate.
type Commit struct {
	Decision   *model.Decision
	Subject    *model.Subject
	PrevStatus types.SubjectStatus
}

// Mutator wraps the remote decision-create and subject-update calls with
// immediate local cache reflection and guaranteed rollback on failure.
// All writes to the cached subject collection flow through here.
type Mutator struct {
	cache   *Cache
	key     CollectionKey
	repo    interfaces.Repository
	drafts  interfaces.DraftStore
	hub     *SyncHub
	retries *RetryRegistry
}

// NewMutator wires the mutator to its collaborators
func NewMutator(cache *Cache, key CollectionKey, repo interfaces.Repository, drafts interfaces.DraftStore, hub *SyncHub, retries *RetryRegistry) *Mutator {
	return &Mutator{
		cache:   cache,
		key:     key,
		repo:    repo,
		drafts:  drafts,
		hub:     hub,
		retries: retries,
	}
}

// Decide applies the decision optimistically, commits it remotely, and
// rolls the cache back verbatim if the commit fails.
//
// The decision create and the subject status update are deliberately
// sequential: the status to set depends on the decision kind, and the
// orphaned decision record of a half-failed commit is compensated before
// the error is surfaced, so a retry starts from a clean slate.
//
// When two mutations target the same subject concurrently, the second
// snapshot is taken after the first optimistic apply, so rolling back
// the second does not revert the first. Last writer wins at the cache
// layer; the remote store stays the final arbiter once both settle.
func (m *Mutator) Decide(ctx context.Context, in DecisionInput) (*Commit, error) {
	if in.DeciderID == "" {
		return nil, goerr.New("decider identity is required",
			goerr.V("subjectID", in.SubjectID), goerr.T(types.ErrTagAuth))
	}
	if !in.Kind.IsValid() {
		return nil, goerr.New("invalid decision kind",
			goerr.V("kind", in.Kind), goerr.T(types.ErrTagValidation))
	}

	m.hub.publish(SyncEvent{SubjectID: in.SubjectID, Pending: true})

	// A background refresh resolving mid-mutation would clobber the
	// snapshot basis or appear to undo the optimistic write.
	m.cache.CancelInflight(m.key)

	snapshot, prevStatus, inCache := m.cache.snapshotAndApply(m.key, in.SubjectID, in.Kind.SubjectStatus())
	if !inCache {
		// The undo compensation reverts to this value, so it has to be
		// the subject's actual pre-decision status, not a guess.
		current, err := m.repo.Subject().Get(ctx, in.SubjectID)
		if err != nil {
			return nil, m.failed(in, goerr.Wrap(err, "failed to resolve subject before decision",
				goerr.V("subjectID", in.SubjectID)))
		}
		prevStatus = current.Status
	}

	commit, err := m.commit(ctx, in)
	if err != nil {
		m.cache.restore(m.key, snapshot)
		return nil, m.failed(in, err)
	}

	commit.PrevStatus = prevStatus

	// Subsequent reads are server-authoritative.
	m.cache.Invalidate(m.key)
	m.retries.Clear(in.SubjectID)
	if err := m.drafts.ClearDraft(ctx, in.SubjectID); err != nil {
		logging.From(ctx).Warn("failed to clear draft after commit",
			"subjectID", in.SubjectID, "error", err)
	}

	m.hub.publish(SyncEvent{SubjectID: in.SubjectID})
	return commit, nil
}

// failed registers a retry for transient failures and reports the error
// to the sync hub. The retry closure re-runs the whole flow, including a
// fresh snapshot.
func (m *Mutator) failed(in DecisionInput, err error) error {
	var retry func(ctx context.Context) error
	if goerr.HasTag(err, types.ErrTagTransient) {
		retry = func(ctx context.Context) error {
			_, rerr := m.Decide(ctx, in)
			return rerr
		}
		m.retries.put(in.SubjectID, retry)
	}

	m.hub.publish(SyncEvent{SubjectID: in.SubjectID, Err: err, Retry: retry})
	return err
}

func (m *Mutator) commit(ctx context.Context, in DecisionInput) (*Commit, error) {
	decision, err := m.repo.Decision().Create(ctx, &model.Decision{
		SubjectID:   in.SubjectID,
		Kind:        in.Kind,
		Constraints: in.Constraints,
		Context:     in.Context,
		DeciderID:   in.DeciderID,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create decision",
			goerr.V("subjectID", in.SubjectID), goerr.V("kind", in.Kind))
	}

	subject, err := m.repo.Subject().UpdateStatus(ctx, in.SubjectID, in.Kind.SubjectStatus())
	if err != nil {
		// The created decision must not outlive its failed status
		// transition: a retry would otherwise commit a second record
		// for the same subject.
		if derr := m.repo.Decision().Delete(ctx, decision.ID); derr != nil {
			logging.From(ctx).Warn("failed to remove orphaned decision",
				"decisionID", decision.ID, "subjectID", in.SubjectID, "error", derr)
		}
		return nil, goerr.Wrap(err, "failed to update subject status",
			goerr.V("subjectID", in.SubjectID),
			goerr.V("decisionID", decision.ID),
			goerr.V("status", in.Kind.SubjectStatus()))
	}

	return &Commit{Decision: decision, Subject: subject}, nil
}

// Retry re-invokes the last failed mutation for the subject
func (m *Mutator) Retry(ctx context.Context, subjectID types.SubjectID) error {
	return m.retries.Retry(ctx, subjectID)
}
