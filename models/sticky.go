package models

// StickyMessage is a message that is reposted whenever the channel moves on
type StickyMessage struct {
	ChannelID     int64  `db:"channel_id"`
	GuildID       int64  `db:"guild_id"`
	Content       string `db:"content"`
	LastMessageID *int64 `db:"last_message_id"`
}
