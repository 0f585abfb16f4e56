// Package notify defines the outbound notification contract.
// Implementations live in the infrastructure layer.
package notify

import "context"

// Mailer sends a notification. Fire-and-forget: callers log failures
// and never retry, a failed send must not fail the request.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

// Noop discards all notifications. Used when SMTP is not configured.
type Noop struct{}

// Send implements Mailer.
func (Noop) Send(context.Context, []string, string, string) error {
	return nil
}
