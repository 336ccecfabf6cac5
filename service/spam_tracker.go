package service

import (
	"sync"
	"time"
)

// trackerKey identifies one member in one guild
type trackerKey struct {
	guildID int64
	userID  int64
}

// memberTrack is the bounded recent-message state for one member
type memberTrack struct {
	timestamps  []time.Time // oldest first
	lastContent string
	lastSeen    time.Time
}

// spamTracker keeps a bounded sliding window of recent message timestamps per
// (guild, user), plus each member's last message content for the duplicate
// check. It is owned by the antispam service alone and cleared on reconnect.
type spamTracker struct {
	mu      sync.Mutex
	members map[trackerKey]*memberTrack
	// maxTracked bounds how many timestamps one member can hold regardless
	// of the configured window, so a flood cannot grow memory without limit
	maxTracked int
}

func newSpamTracker(maxTracked int) *spamTracker {
	return &spamTracker{
		members:    make(map[trackerKey]*memberTrack),
		maxTracked: maxTracked,
	}
}

// Observe records one message and returns how many messages the member has
// sent within the window ending at now, and whether the content repeats the
// member's previous message.
func (t *spamTracker) Observe(guildID, userID int64, content string, now time.Time, window time.Duration) (count int, duplicate bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := trackerKey{guildID: guildID, userID: userID}
	track := t.members[key]
	if track == nil {
		track = &memberTrack{}
		t.members[key] = track
	}

	// A repeat only counts as a duplicate while the previous message is
	// still inside the window
	duplicate = track.lastContent != "" && track.lastContent == content &&
		now.Sub(track.lastSeen) <= window
	track.lastContent = content
	track.lastSeen = now

	// Drop timestamps that have aged out of the window
	cutoff := now.Add(-window)
	kept := track.timestamps[:0]
	for _, ts := range track.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	track.timestamps = append(kept, now)

	if len(track.timestamps) > t.maxTracked {
		track.timestamps = track.timestamps[len(track.timestamps)-t.maxTracked:]
	}

	return len(track.timestamps), duplicate
}

// Forget drops a member's tracked state, used after action has been taken
func (t *spamTracker) Forget(guildID, userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.members, trackerKey{guildID: guildID, userID: userID})
}

// Reset clears all tracked state
func (t *spamTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.members = make(map[trackerKey]*memberTrack)
}
