package testutil

import (
	"time"

	"npnbot/models"
)

// CreateTestTicket creates an open test ticket with default values
func CreateTestTicket(channelID, guildID, userID, number int64) *models.Ticket {
	return &models.Ticket{
		ChannelID:    channelID,
		GuildID:      guildID,
		UserID:       userID,
		TicketNumber: number,
		Status:       models.TicketStatusOpen,
		CreatedAt:    time.Now(),
	}
}

// CreateTestGiveaway creates a test giveaway ending one hour from now
func CreateTestGiveaway(guildID, channelID, messageID int64) *models.Giveaway {
	end := time.Now().Add(time.Hour)
	return &models.Giveaway{
		GuildID:      guildID,
		ChannelID:    channelID,
		MessageID:    messageID,
		Prize:        "Test Prize",
		WinnersCount: 1,
		HostID:       1,
		EndTime:      &end,
	}
}

// CreateTestGiveawayEndingAt creates a test giveaway with a specific deadline
func CreateTestGiveawayEndingAt(guildID, channelID, messageID int64, end time.Time) *models.Giveaway {
	g := CreateTestGiveaway(guildID, channelID, messageID)
	g.EndTime = &end
	return g
}

// CreateTestPoll creates a test poll with two options ending one hour from now
func CreateTestPoll(guildID, channelID, messageID int64) *models.Poll {
	end := time.Now().Add(time.Hour)
	return &models.Poll{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		Question:  "Test question?",
		Options:   []string{"Yes", "No"},
		CreatorID: 1,
		EndTime:   &end,
	}
}

// CreateTestPollWithOptions creates a test poll with specific options
func CreateTestPollWithOptions(guildID, channelID, messageID int64, options []string) *models.Poll {
	poll := CreateTestPoll(guildID, channelID, messageID)
	poll.Options = options
	return poll
}

// CreateTestAntispamConfig creates an enabled anti-spam config with default limits
func CreateTestAntispamConfig(guildID int64) *models.AntispamConfig {
	return &models.AntispamConfig{
		GuildID:           guildID,
		Enabled:           true,
		MaxMessages:       5,
		TimeWindowSeconds: 10,
		Action:            models.SpamActionWarn,
	}
}

// CreateTestDonation creates a test donation announcement
func CreateTestDonation(guildID, channelID, messageID int64, content string) *models.Donation {
	return &models.Donation{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		Content:   content,
	}
}
