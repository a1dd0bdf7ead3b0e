package interfaces

import (
	"context"

	"github.com/ward-lab/themis/pkg/domain/model"
)

// Notifier is the notification surface. Implementations decide how a
// message and its optional action are presented.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}
