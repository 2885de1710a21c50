// Package email delivers transactional email for the complaint portal.
package email

import (
	"context"
)

// EscalationItem is one overdue complaint in an escalation digest.
type EscalationItem struct {
	ComplaintID string
	Title       string
	Status      string
	Age         string
	Reason      string
}

// EscalationDigest is the content of a stale-complaint digest email.
type EscalationDigest struct {
	Department string
	Items      []EscalationItem
}

// Sender delivers portal emails.
type Sender interface {
	SendEscalationDigest(ctx context.Context, toEmail string, digest EscalationDigest) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendEscalationDigest(ctx context.Context, toEmail string, digest EscalationDigest) error {
	return nil
}
