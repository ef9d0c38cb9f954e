// Package notify sends review decision emails to submitting authors.
package notify

import "context"

// EmailProvider is the adapter interface for outbound email mechanisms.
// Implement this to add new providers (SendGrid, SES, SMTP, etc.).
type EmailProvider interface {
	// Type returns the provider name (e.g. "sendgrid").
	Type() string
	// Send delivers a plain-text message to recipientAddress.
	Send(ctx context.Context, recipientAddress, subject, body string) error
}
