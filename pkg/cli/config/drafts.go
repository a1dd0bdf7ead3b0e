package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/ward-lab/themis/pkg/domain/interfaces"
	redisdrafts "github.com/ward-lab/themis/pkg/draftstore/redis"
	"github.com/ward-lab/themis/pkg/review"
	"github.com/ward-lab/themis/pkg/utils/logging"
)

// Drafts holds CLI flags for draft store backend configuration. Memory
// is the default: drafts are a liveness convenience and are lost on
// restart by design. The redis backend keeps them across restarts.
type Drafts struct {
	backend   string
	redisAddr string
}

// Flags returns CLI flags for draft store configuration
func (d *Drafts) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "draft-backend",
			Usage:       "Draft store backend type (memory or redis)",
			Value:       "memory",
			Sources:     cli.EnvVars("THEMIS_DRAFT_BACKEND"),
			Destination: &d.backend,
		},
		&cli.StringFlag{
			Name:        "draft-redis-addr",
			Usage:       "Redis address for the draft store (host:port)",
			Sources:     cli.EnvVars("THEMIS_DRAFT_REDIS_ADDR"),
			Destination: &d.redisAddr,
		},
	}
}

// Configure initializes the draft store for the configured backend
func (d *Drafts) Configure(ctx context.Context) (interfaces.DraftStore, error) {
	switch d.backend {
	case "memory", "":
		return review.NewDrafts(), nil

	case "redis":
		if d.redisAddr == "" {
			return nil, goerr.New("draft-redis-addr is required when using redis backend")
		}
		store, err := redisdrafts.New(ctx, d.redisAddr)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis draft store")
		}
		logging.Default().Info("Using Redis draft store", "addr", d.redisAddr)
		return store, nil

	default:
		return nil, goerr.New("invalid draft backend", goerr.V("backend", d.backend))
	}
}
