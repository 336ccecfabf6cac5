package models

import (
	"time"
)

// Giveaway represents a reaction-entry giveaway announcement.
// Ended rows are never deleted; they remain as history for rerolls.
type Giveaway struct {
	ID           int64      `db:"id"`
	GuildID      int64      `db:"guild_id"`
	ChannelID    int64      `db:"channel_id"`
	MessageID    int64      `db:"message_id"`
	Prize        string     `db:"prize"`
	WinnersCount int        `db:"winners_count"`
	HostID       int64      `db:"host_id"`
	EndTime      *time.Time `db:"end_time"`
	Ended        bool       `db:"ended"`
	CreatedAt    time.Time  `db:"created_at"`
}

// GiveawayResult is the outcome of finalizing a giveaway
type GiveawayResult struct {
	Giveaway  *Giveaway
	WinnerIDs []int64
	Entrants  int
}

// HasWinners returns whether anyone won the giveaway
func (r *GiveawayResult) HasWinners() bool {
	return len(r.WinnerIDs) > 0
}
