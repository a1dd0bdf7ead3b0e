package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/domain/types"
)

// DefaultTTL bounds how long an abandoned draft lingers
const DefaultTTL = 14 * 24 * time.Hour

// Store is a Redis-backed draft store for deployments that want drafts
// to survive process restarts. Semantics match the in-memory store:
// wholesale overwrite, last write wins.
type Store struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ interfaces.DraftStore = &Store{}

// Option is a functional option for Store
type Option func(*Store)

// WithTTL overrides the draft expiry
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a draft store on the given Redis address
func New(ctx context.Context, addr string, opts ...Option) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	s := &Store{
		client: client,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func draftKey(subjectID types.SubjectID) string {
	return "themis:draft:" + subjectID.String()
}

func (s *Store) SetDraft(ctx context.Context, subjectID types.SubjectID, draft *model.Draft) error {
	stored := draft.Clone()
	stored.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(stored)
	if err != nil {
		return goerr.Wrap(err, "failed to encode draft", goerr.V("subjectID", subjectID))
	}

	if err := s.client.Set(ctx, draftKey(subjectID), raw, s.ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to store draft",
			goerr.V("subjectID", subjectID), goerr.T(types.ErrTagTransient))
	}
	return nil
}

func (s *Store) GetDraft(ctx context.Context, subjectID types.SubjectID) (*model.Draft, bool, error) {
	raw, err := s.client.Get(ctx, draftKey(subjectID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to load draft",
			goerr.V("subjectID", subjectID), goerr.T(types.ErrTagTransient))
	}

	var draft model.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, false, goerr.Wrap(err, "failed to decode draft", goerr.V("subjectID", subjectID))
	}
	return &draft, true, nil
}

func (s *Store) ClearDraft(ctx context.Context, subjectID types.SubjectID) error {
	if err := s.client.Del(ctx, draftKey(subjectID)).Err(); err != nil {
		return goerr.Wrap(err, "failed to clear draft",
			goerr.V("subjectID", subjectID), goerr.T(types.ErrTagTransient))
	}
	return nil
}

// Close releases the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}
