package models

import (
	"time"
)

// Donation is a donation announcement posted by an admin
type Donation struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	ChannelID int64     `db:"channel_id"`
	MessageID int64     `db:"message_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
