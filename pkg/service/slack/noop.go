package slack

import (
	"context"

	ifs "github.com/ward-lab/themis/pkg/domain/interfaces"
	"github.com/ward-lab/themis/pkg/domain/model"
	"github.com/ward-lab/themis/pkg/utils/logging"
)

type noopNotifier struct{}

// NewNoop returns a notifier that only logs, for deployments without
// Slack configured.
func NewNoop() ifs.Notifier {
	return &noopNotifier{}
}

func (n *noopNotifier) Notify(ctx context.Context, notification model.Notification) error {
	logging.From(ctx).Info("notification", "message", notification.Message)
	return nil
}
