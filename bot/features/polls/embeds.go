package polls

import (
	"fmt"
	"strings"
	"time"

	"npnbot/bot/common"
	"npnbot/models"

	"github.com/bwmarrin/discordgo"
)

const resultBarWidth = 10

// pollEmbed builds the announcement users vote on with ballot reactions
func pollEmbed(question string, options []string, endTime *time.Time) *discordgo.MessageEmbed {
	var lines []string
	for index, option := range options {
		lines = append(lines, fmt.Sprintf("%s %s", NumberEmojis[index], option))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 " + question,
		Color:       common.ColorInfo,
		Description: strings.Join(lines, "\n"),
	}
	if endTime != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Ends " + endTime.UTC().Format("Jan 2 15:04 MST"),
		}
	}
	return embed
}

// resultsEmbed renders the final tally with per-option bars
func resultsEmbed(result *models.PollResult) *discordgo.MessageEmbed {
	var lines []string
	for index, option := range result.Poll.Options {
		lines = append(lines, fmt.Sprintf("%s **%s**\n%s %d (%.0f%%)",
			NumberEmojis[index],
			option,
			common.ProgressBar(result.Counts[index], result.TotalVotes, resultBarWidth),
			result.Counts[index],
			result.Percentage(index),
		))
	}

	return &discordgo.MessageEmbed{
		Title:       "📊 Poll results: " + result.Poll.Question,
		Color:       common.ColorSuccess,
		Description: strings.Join(lines, "\n\n"),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d vote(s)", result.TotalVotes),
		},
	}
}
