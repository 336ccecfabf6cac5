package models

import (
	"time"
)

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket represents a support ticket backed by a dedicated channel
type Ticket struct {
	ChannelID    int64        `db:"channel_id"`
	GuildID      int64        `db:"guild_id"`
	UserID       int64        `db:"user_id"`
	TicketNumber int64        `db:"ticket_number"`
	Status       TicketStatus `db:"status"`
	CreatedAt    time.Time    `db:"created_at"`
	ClosedAt     *time.Time   `db:"closed_at"`
}

// IsOpen returns whether the ticket is still open
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}
