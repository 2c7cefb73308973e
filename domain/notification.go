package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the durable record pushed to a single principal.
// Created once by the translator, persisted before any push attempt,
// never mutated afterwards.
type Notification struct {
	ID            uuid.UUID
	Title         string
	Message       string
	CreatedAt     time.Time
	RecipientRole Role
	RecipientID   string

	// SkipPush marks notifications kept for the recipient's own audit
	// trail only (no live delivery).
	SkipPush bool
}

func (n Notification) Mailbox() Address {
	return MailboxAddress(n.RecipientRole, n.RecipientID)
}
