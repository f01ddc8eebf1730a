// Package ports defines the external collaborator interfaces the reminder
// engine consumes. The wallet service, citizen profile service, and delivery
// transport are separate systems; docgate decides what to send and to whom,
// never how it is transmitted.
package ports

import (
	"context"

	"docgate/pkg/domain"
)

// WalletStatusProvider answers whether a citizen's digital wallet is suspended.
// Suspension gates reminder delivery; docgate never manages wallet state.
type WalletStatusProvider interface {
	IsSuspended(ctx context.Context, owner domain.CitizenID) (bool, error)
}

// Contact is the owner's reachable channels. Either field may be empty.
type Contact struct {
	Email string
	Phone string
}

// Usable reports whether at least one channel is present.
func (c Contact) Usable() bool { return c.Email != "" || c.Phone != "" }

// ContactResolver looks up the owner's contact channels from the citizen profile.
type ContactResolver interface {
	Contact(ctx context.Context, owner domain.CitizenID) (Contact, error)
}

// Reminder is the delivery request handed to the transport.
type Reminder struct {
	DocumentID   domain.DocumentID
	OwnerID      domain.CitizenID
	Contact      Contact
	DocumentType string
	DaysText     string
}

// NotificationTransport delivers one reminder. Implementations live outside
// docgate (e-mail, SMS, push); an error here is a per-document failure.
type NotificationTransport interface {
	Send(ctx context.Context, reminder Reminder) error
}
