package models

// ReactionRole binds an emoji on a message to a role grant
type ReactionRole struct {
	MessageID int64  `db:"message_id"`
	Emoji     string `db:"emoji"`
	RoleID    int64  `db:"role_id"`
	GuildID   int64  `db:"guild_id"`
}
