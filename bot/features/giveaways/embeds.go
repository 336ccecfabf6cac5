package giveaways

import (
	"fmt"
	"time"

	"npnbot/bot/common"
	"npnbot/models"

	"github.com/bwmarrin/discordgo"
)

// announcementEmbed builds the embed users react to in order to enter
func announcementEmbed(prize string, winners int, endTime time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎉 Giveaway: " + prize,
		Color:       common.ColorPrimary,
		Description: fmt.Sprintf("React with %s to enter!\nEnds %s", EntryEmoji, common.FormatDiscordTimestamp(endTime, "R")),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Winners",
				Value:  fmt.Sprintf("%d", winners),
				Inline: true,
			},
		},
	}
}

// resultEmbed replaces the announcement once the giveaway ends
func resultEmbed(result *models.GiveawayResult) *discordgo.MessageEmbed {
	winnerStr := "Nobody entered"
	if result.HasWinners() {
		winnerStr = common.FormatMentions(result.WinnerIDs)
	}

	return &discordgo.MessageEmbed{
		Title:       "🎉 Giveaway ended: " + result.Giveaway.Prize,
		Color:       common.ColorSuccess,
		Description: fmt.Sprintf("%d entrant(s)", result.Entrants),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Winners",
				Value:  winnerStr,
				Inline: false,
			},
		},
	}
}
