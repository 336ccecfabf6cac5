package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpamTracker_Observe(t *testing.T) {
	tracker := newSpamTracker(64)
	base := time.Now()
	window := 10 * time.Second

	t.Run("counts messages in window", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			count, _ := tracker.Observe(1, 10, fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*time.Second), window)
			assert.Equal(t, i, count)
		}
	})

	t.Run("old messages age out", func(t *testing.T) {
		count, _ := tracker.Observe(1, 10, "later", base.Add(30*time.Second), window)
		assert.Equal(t, 1, count)
	})

	t.Run("members are independent", func(t *testing.T) {
		count, _ := tracker.Observe(1, 20, "other member", base, window)
		assert.Equal(t, 1, count)

		count, _ = tracker.Observe(2, 10, "other guild", base, window)
		assert.Equal(t, 1, count)
	})
}

func TestSpamTracker_DuplicateDetection(t *testing.T) {
	tracker := newSpamTracker(64)
	base := time.Now()
	window := 10 * time.Second

	_, duplicate := tracker.Observe(1, 10, "same text", base, window)
	assert.False(t, duplicate)

	_, duplicate = tracker.Observe(1, 10, "same text", base.Add(time.Second), window)
	assert.True(t, duplicate)

	_, duplicate = tracker.Observe(1, 10, "different text", base.Add(2*time.Second), window)
	assert.False(t, duplicate)
}

func TestSpamTracker_DuplicateExpiresWithWindow(t *testing.T) {
	tracker := newSpamTracker(64)
	base := time.Now()
	window := 10 * time.Second

	tracker.Observe(1, 10, "same text", base, window)

	// Repeating yourself long after the window has passed is not spam
	_, duplicate := tracker.Observe(1, 10, "same text", base.Add(time.Hour), window)
	assert.False(t, duplicate)

	// But a quick repeat of that message still is
	_, duplicate = tracker.Observe(1, 10, "same text", base.Add(time.Hour+time.Second), window)
	assert.True(t, duplicate)
}

func TestSpamTracker_BoundsTimestamps(t *testing.T) {
	tracker := newSpamTracker(5)
	base := time.Now()

	// A huge window never prunes, so only the cap limits growth
	window := time.Hour

	var count int
	for i := 0; i < 100; i++ {
		count, _ = tracker.Observe(1, 10, fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*time.Millisecond), window)
	}
	assert.Equal(t, 5, count)
}

func TestSpamTracker_ForgetAndReset(t *testing.T) {
	tracker := newSpamTracker(64)
	base := time.Now()
	window := 10 * time.Second

	tracker.Observe(1, 10, "a", base, window)
	tracker.Observe(1, 10, "b", base, window)
	tracker.Observe(1, 20, "c", base, window)

	tracker.Forget(1, 10)

	count, duplicate := tracker.Observe(1, 10, "b", base.Add(time.Second), window)
	assert.Equal(t, 1, count)
	assert.False(t, duplicate)

	tracker.Reset()

	count, _ = tracker.Observe(1, 20, "c", base.Add(time.Second), window)
	assert.Equal(t, 1, count)
}
