package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	adminOnly := int64(discordgo.PermissionAdministrator)

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "ticket",
			Description: "Open a support ticket",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "What do you need help with?",
					Required:    false,
				},
			},
		},
		{
			Name:        "closeticket",
			Description: "Close this ticket channel",
		},
		{
			Name:                     "gstart",
			Description:              "Start a giveaway",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long the giveaway runs, e.g. 30s, 10m, 2h, 1d",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "winners",
					Description: "Number of winners",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prize",
					Description: "What the winners get",
					Required:    true,
				},
			},
		},
		{
			Name:                     "gend",
			Description:              "End a giveaway immediately",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "Message ID of the giveaway announcement",
					Required:    true,
				},
			},
		},
		{
			Name:                     "greroll",
			Description:              "Draw new winners for an ended giveaway",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "Message ID of the giveaway announcement",
					Required:    true,
				},
			},
		},
		{
			Name:        "poll",
			Description: "Create a reaction poll",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "question",
					Description: "What are you asking?",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "options",
					Description: "2 to 10 options separated by semicolons",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long the poll runs, e.g. 30s, 10m, 2h, 1d",
					Required:    false,
				},
			},
		},
		{
			Name:                     "endpoll",
			Description:              "End a poll and post the results",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "Message ID of the poll",
					Required:    true,
				},
			},
		},
		{
			Name:                     "reactionrole",
			Description:              "Bind an emoji on a message to a role",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "Message ID to watch for reactions",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "emoji",
					Description: "Emoji members react with",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to grant",
					Required:    true,
				},
			},
		},
		{
			Name:                     "removereactionrole",
			Description:              "Remove an emoji to role binding",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "Message ID of the binding",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "emoji",
					Description: "Emoji of the binding",
					Required:    true,
				},
			},
		},
		{
			Name:                     "antispam",
			Description:              "Configure anti-spam for this server",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Turn anti-spam on or off",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "max_messages",
					Description: "Messages allowed inside the window (default 5)",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "time_window",
					Description: "Window length in seconds (default 5)",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "What happens to spammers (default mute)",
					Required:    false,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Warn", Value: "warn"},
						{Name: "Mute", Value: "mute"},
						{Name: "Kick", Value: "kick"},
					},
				},
			},
		},
		{
			Name:                     "sticky",
			Description:              "Pin a message to the bottom of this channel",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "The message to keep at the bottom",
					Required:    true,
				},
			},
		},
		{
			Name:                     "unsticky",
			Description:              "Remove this channel's sticky message",
			DefaultMemberPermissions: &adminOnly,
		},
		{
			Name:        "afk",
			Description: "Mark yourself as AFK",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why you are away",
					Required:    false,
				},
			},
		},
		{
			Name:        "removeafk",
			Description: "Clear your AFK status",
		},
		{
			Name:                     "setwelcome",
			Description:              "Configure the welcome message",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel to greet new members in",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Custom message; {user}, {username}, {server}, {membercount} are replaced",
					Required:    false,
				},
			},
		},
		{
			Name:                     "setleave",
			Description:              "Configure the leave message",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel to announce departures in",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Custom message; {user}, {username}, {server}, {membercount} are replaced",
					Required:    false,
				},
			},
		},
		{
			Name:                     "testwelcome",
			Description:              "Send a test welcome message",
			DefaultMemberPermissions: &adminOnly,
		},
		{
			Name:                     "announce",
			Description:              "Post an announcement",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel to post in",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Announcement title",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "Announcement body",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "mention_everyone",
					Description: "Ping @everyone with the announcement",
					Required:    false,
				},
			},
		},
		{
			Name:                     "donation",
			Description:              "Post a donation announcement",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel to post in",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "Announcement title",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "content",
					Description: "Announcement body",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "goal",
					Description: "Fundraising goal to display",
					Required:    false,
				},
			},
		},
		{
			Name:                     "editdonation",
			Description:              "Edit a donation announcement",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message_id",
					Description: "Message ID of the announcement",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "content",
					Description: "New announcement body",
					Required:    true,
				},
			},
		},
		{
			Name:        "listdonations",
			Description: "List recent donation announcements",
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
	}

	return nil
}
