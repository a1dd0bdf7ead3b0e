package model

import "context"

// NotificationAction is an optional user-actionable attachment to a
// notification, e.g. a retry of a failed submit or an undo.
type NotificationAction struct {
	Label string
	Run   func(ctx context.Context) error
}

// Notification is a message for the notification surface. When
// Indefinite is set the caller governs dismissal timing, not the
// notification system (used by the undo window, which dismisses the
// confirmation itself when the window expires).
type Notification struct {
	Message    string
	Action     *NotificationAction
	Indefinite bool
}
