package domain

import "time"

// Attachment stores metadata for an uploaded file on a ticket. The bytes
// live in object storage under StorageKey; this row is the reference.
type Attachment struct {
	ID         string
	TicketID   string
	OwnerID    string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
