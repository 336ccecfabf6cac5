package models

import (
	"time"
)

// GuildConfig holds per-guild bot configuration
type GuildConfig struct {
	GuildID          int64     `db:"guild_id"`
	Prefix           string    `db:"prefix"`
	WelcomeChannelID *int64    `db:"welcome_channel_id"`
	WelcomeMessage   *string   `db:"welcome_message"`
	LeaveChannelID   *int64    `db:"leave_channel_id"`
	LeaveMessage     *string   `db:"leave_message"`
	UpdatedAt        time.Time `db:"updated_at"`
}
