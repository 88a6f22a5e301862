package domain

import "time"

// Comment is a remark on a ticket. Comments are immutable once created.
type Comment struct {
	ID        string
	TicketID  string
	OwnerID   string
	Body      string
	CreatedAt time.Time
}
