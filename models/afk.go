package models

import (
	"time"
)

// AFKStatus marks a user as away in one guild
type AFKStatus struct {
	UserID  int64     `db:"user_id"`
	GuildID int64     `db:"guild_id"`
	Reason  string    `db:"reason"`
	SetAt   time.Time `db:"set_at"`
}
