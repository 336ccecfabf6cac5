package service

import (
	"errors"
	"fmt"
)

// ErrAnnouncementGone is returned by EntrantSource implementations when the
// guild, channel, or announcement message no longer exists. The scheduler
// skips such rows without finalizing them.
var ErrAnnouncementGone = errors.New("announcement no longer exists")

// ErrNoActiveGiveaway indicates no unended giveaway matches the message
var ErrNoActiveGiveaway = errors.New("no active giveaway for that message")

// ErrNoEndedGiveaway indicates no ended giveaway matches the message
var ErrNoEndedGiveaway = errors.New("no ended giveaway for that message")

// ErrNoActivePoll indicates no unended poll matches the message
var ErrNoActivePoll = errors.New("no active poll for that message")

// ErrNotTicketChannel indicates the channel is not backing an open ticket
var ErrNotTicketChannel = errors.New("channel is not an open ticket")

// ErrNoSticky indicates the channel has no sticky message
var ErrNoSticky = errors.New("no sticky message in channel")

// ErrNoDonation indicates the message is not a donation announcement
var ErrNoDonation = errors.New("no donation announcement for that message")

// ErrTicketExists is returned when a user already has an open ticket in the
// guild. It carries the existing channel so handlers can point the user at it.
type ErrTicketExists struct {
	ChannelID int64
}

func (e *ErrTicketExists) Error() string {
	return fmt.Sprintf("user already has an open ticket in channel %d", e.ChannelID)
}

// AsTicketExists unwraps an ErrTicketExists from err, nil if it is not one
func AsTicketExists(err error) *ErrTicketExists {
	var te *ErrTicketExists
	if errors.As(err, &te) {
		return te
	}
	return nil
}
