package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	ifs "github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
)

// client posts notifications to a Slack channel. Interactive handling of
// the attached action stays in-process; the message only names it so the
// channel has a record of what was offered.
type client struct {
	api     *slack.Client
	channel string
}

var _ ifs.Notifier = &client{}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a Slack notifier posting to the given channel
func New(token, channel string, opts ...Option) (ifs.Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	c := &client{
		api:     slack.New(token),
		channel: channel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client) Notify(ctx context.Context, n model.Notification) error {
	blocks := []slack.Block{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, n.Message, false, false),
			nil, nil,
		),
	}
	if n.Action != nil {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, "Action available: *"+n.Action.Label+"*", false, false),
		))
	}

	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(n.Message, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack notification",
			goerr.V("channel", c.channel))
	}
	return nil
}
