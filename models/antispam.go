package models

// SpamAction is the moderation action taken against a spammer
type SpamAction string

const (
	SpamActionWarn SpamAction = "warn"
	SpamActionMute SpamAction = "mute"
	SpamActionKick SpamAction = "kick"
)

// ValidSpamAction reports whether the action is one the bot can take
func ValidSpamAction(action SpamAction) bool {
	switch action {
	case SpamActionWarn, SpamActionMute, SpamActionKick:
		return true
	}
	return false
}

// AntispamConfig holds per-guild anti-spam settings
type AntispamConfig struct {
	GuildID           int64      `db:"guild_id"`
	Enabled           bool       `db:"enabled"`
	MaxMessages       int        `db:"max_messages"`
	TimeWindowSeconds int        `db:"time_window_seconds"`
	Action            SpamAction `db:"action"`
}
