// Package notify defines the interface the checker uses to deliver alert
// notifications, keeping the evaluation loop independent of the chat
// transport.
package notify

import (
	"context"
	"errors"
)

// ErrRecipientUnreachable marks a permanent delivery failure (the user
// blocked the bot or the chat no longer exists). Callers log it distinctly;
// the alert itself is only ever deleted by the user.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Button is an inline action attached to a notification.
type Button struct {
	Label string
	Data  string
}

// Payload carries everything needed to deliver one notification.
type Payload struct {
	ChatID   int64
	Text     string
	ImageURL string
	Buttons  []Button
}

// Notifier delivers notifications to chat users.
type Notifier interface {
	Send(ctx context.Context, p Payload) error
}
