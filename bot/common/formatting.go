package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ParseDuration parses compact duration strings like "30s", "10m", "2h", "1d".
// Bare numbers are taken as minutes. Returns an error for anything else.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if value, err := strconv.Atoi(input); err == nil {
		if value <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(value) * time.Minute, nil
	}

	unit := input[len(input)-1]
	value, err := strconv.Atoi(input[:len(input)-1])
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid duration %q", input)
	}

	switch unit {
	case 's':
		return time.Duration(value) * time.Second, nil
	case 'm':
		return time.Duration(value) * time.Minute, nil
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid duration unit %q", string(unit))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatMentions renders user IDs as a comma separated mention list
func FormatMentions(userIDs []int64) string {
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = fmt.Sprintf("<@%d>", id)
	}
	return strings.Join(mentions, ", ")
}

// ApplyPlaceholders substitutes member message placeholders:
// {user} mention, {username} plain name, {server} guild name,
// {membercount} current member total.
func ApplyPlaceholders(template string, user *discordgo.User, guild *discordgo.Guild) string {
	replacer := strings.NewReplacer(
		"{user}", user.Mention(),
		"{username}", user.Username,
		"{server}", guild.Name,
		"{membercount}", strconv.Itoa(guild.MemberCount),
	)
	return replacer.Replace(template)
}

// ProgressBar renders a fixed-width unicode bar for a vote share
func ProgressBar(count, total, width int) string {
	filled := 0
	if total > 0 {
		filled = count * width / total
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// GetDisplayName resolves a member's nickname, falling back to the username
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
	}
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err != nil {
		return "Unknown"
	}
	return user.Username
}
