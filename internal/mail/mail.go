// Package mail delivers transactional email (OTP codes) through a
// configured SMTP provider. Handlers depend on the Mailer interface so
// tests can substitute a fake sender.
package mail

import (
	"context" // Cancellation check before dialing/writing
)

// Mailer abstracts the email provider
type Mailer interface {
	// Send delivers a message; html may be empty for plain-text mail
	Send(ctx context.Context, to, subject, text, html string) error
}
