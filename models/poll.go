package models

import (
	"time"
)

// MaxPollOptions is the most options a single poll may carry
const MaxPollOptions = 10

// Poll represents a reaction-ballot poll announcement.
// Ended rows are never deleted; they remain as history.
type Poll struct {
	ID        int64      `db:"id"`
	GuildID   int64      `db:"guild_id"`
	ChannelID int64      `db:"channel_id"`
	MessageID int64      `db:"message_id"`
	Question  string     `db:"question"`
	Options   []string   `db:"options"`
	CreatorID int64      `db:"creator_id"`
	EndTime   *time.Time `db:"end_time"`
	Ended     bool       `db:"ended"`
	CreatedAt time.Time  `db:"created_at"`
}

// PollVote is one voter's live choice on a poll.
// Re-voting overwrites the option index, it never adds a second row.
type PollVote struct {
	PollID      int64 `db:"poll_id"`
	UserID      int64 `db:"user_id"`
	OptionIndex int   `db:"option_index"`
}

// PollResult is the tallied outcome of finalizing a poll
type PollResult struct {
	Poll       *Poll
	Counts     []int
	TotalVotes int
}

// Percentage returns the share of total votes for one option
func (r *PollResult) Percentage(optionIndex int) float64 {
	if r.TotalVotes == 0 {
		return 0
	}
	return float64(r.Counts[optionIndex]) / float64(r.TotalVotes) * 100
}
