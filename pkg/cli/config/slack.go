package config

import (
	"github.com/urfave/cli/v3"
	"github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/service/slack"
	"github.com/ward-lab/themis/pkg/utils/logging"
)

// Slack holds CLI flags for the Slack notification surface
type Slack struct {
	botToken string
	channel  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for decision notifications",
			Sources:     cli.EnvVars("THEMIS_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for decision notifications",
			Sources:     cli.EnvVars("THEMIS_SLACK_CHANNEL"),
			Destination: &s.channel,
		},
	}
}

// Configure returns the notifier: Slack when configured, otherwise a
// logging no-op.
func (s *Slack) Configure() (interfaces.Notifier, error) {
	if s.botToken == "" || s.channel == "" {
		logging.Default().Info("Slack not configured, notifications will only be logged")
		return slack.NewNoop(), nil
	}
	return slack.New(s.botToken, s.channel)
}
