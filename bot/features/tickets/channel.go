package tickets

import (
	"context"
	"fmt"

	"npnbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// ChannelCreator creates ticket channels under the configured category with
// visibility restricted to the opener and the guild's admins. It implements
// service.TicketChannelCreator.
type ChannelCreator struct {
	session      *discordgo.Session
	categoryName string
}

// NewChannelCreator creates a new ticket channel creator
func NewChannelCreator(session *discordgo.Session, categoryName string) *ChannelCreator {
	return &ChannelCreator{
		session:      session,
		categoryName: categoryName,
	}
}

// CreateTicketChannel creates the channel backing a ticket and returns its ID
func (c *ChannelCreator) CreateTicketChannel(ctx context.Context, guildID, userID, ticketNumber int64) (int64, error) {
	guild := common.Snowflake(guildID)

	categoryID, err := c.ensureCategory(guild)
	if err != nil {
		return 0, err
	}

	channel, err := c.session.GuildChannelCreateComplex(guild, discordgo.GuildChannelCreateData{
		Name:     fmt.Sprintf("ticket-%04d", ticketNumber),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: categoryID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				// Hide the channel from everyone by default
				ID:   guild,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    common.Snowflake(userID),
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create ticket channel: %w", err)
	}

	return common.ParseSnowflake(channel.ID), nil
}

// DeleteTicketChannel removes a channel whose ticket was never recorded
func (c *ChannelCreator) DeleteTicketChannel(ctx context.Context, channelID int64) error {
	if _, err := c.session.ChannelDelete(common.Snowflake(channelID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete ticket channel: %w", err)
	}
	return nil
}

// ensureCategory finds the ticket category, creating it on first use
func (c *ChannelCreator) ensureCategory(guildID string) (string, error) {
	channels, err := c.session.GuildChannels(guildID)
	if err != nil {
		return "", fmt.Errorf("failed to list guild channels: %w", err)
	}

	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildCategory && channel.Name == c.categoryName {
			return channel.ID, nil
		}
	}

	category, err := c.session.GuildChannelCreate(guildID, c.categoryName, discordgo.ChannelTypeGuildCategory)
	if err != nil {
		return "", fmt.Errorf("failed to create ticket category: %w", err)
	}
	return category.ID, nil
}
