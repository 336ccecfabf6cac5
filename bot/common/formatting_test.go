package common

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
	}{
		{"Seconds", "30s", 30 * time.Second},
		{"Minutes", "10m", 10 * time.Minute},
		{"Hours", "2h", 2 * time.Hour},
		{"Days", "1d", 24 * time.Hour},
		{"Bare number is minutes", "15", 15 * time.Minute},
		{"Uppercase unit", "5M", 5 * time.Minute},
		{"Surrounding whitespace", " 45s ", 45 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDuration(tt.input)
			if err != nil {
				t.Fatalf("ParseDuration(%q) returned error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseDuration(%q) = %v; want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	inputs := []string{"", "abc", "10x", "-5m", "0", "0s", "m"}
	for _, input := range inputs {
		if _, err := ParseDuration(input); err == nil {
			t.Errorf("ParseDuration(%q) succeeded; want error", input)
		}
	}
}

func TestFormatMentions(t *testing.T) {
	tests := []struct {
		name     string
		userIDs  []int64
		expected string
	}{
		{"Empty", nil, ""},
		{"Single", []int64{123}, "<@123>"},
		{"Multiple", []int64{123, 456}, "<@123>, <@456>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatMentions(tt.userIDs)
			if result != tt.expected {
				t.Errorf("FormatMentions(%v) = %q; want %q", tt.userIDs, result, tt.expected)
			}
		})
	}
}

func TestApplyPlaceholders(t *testing.T) {
	user := &discordgo.User{ID: "123", Username: "alice"}
	guild := &discordgo.Guild{Name: "Testville", MemberCount: 42}

	result := ApplyPlaceholders("Welcome {user} ({username}) to {server}, member #{membercount}!", user, guild)
	expected := "Welcome <@123> (alice) to Testville, member #42!"
	if result != expected {
		t.Errorf("ApplyPlaceholders = %q; want %q", result, expected)
	}
}

func TestApplyPlaceholdersWithoutPlaceholders(t *testing.T) {
	user := &discordgo.User{ID: "123", Username: "alice"}
	guild := &discordgo.Guild{Name: "Testville"}

	template := "No placeholders here"
	if result := ApplyPlaceholders(template, user, guild); result != template {
		t.Errorf("ApplyPlaceholders = %q; want %q", result, template)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		total    int
		expected string
	}{
		{"Empty", 0, 10, "░░░░░░░░░░"},
		{"Half", 5, 10, "█████░░░░░"},
		{"Full", 10, 10, "██████████"},
		{"Zero total", 0, 0, "░░░░░░░░░░"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ProgressBar(tt.count, tt.total, 10)
			if result != tt.expected {
				t.Errorf("ProgressBar(%d, %d, 10) = %q; want %q", tt.count, tt.total, result, tt.expected)
			}
		})
	}
}

func TestParseSnowflake(t *testing.T) {
	if got := ParseSnowflake("123456789012345678"); got != 123456789012345678 {
		t.Errorf("ParseSnowflake = %d; want 123456789012345678", got)
	}
	if got := ParseSnowflake(""); got != 0 {
		t.Errorf("ParseSnowflake(\"\") = %d; want 0", got)
	}
	if got := ParseSnowflake("not-a-number"); got != 0 {
		t.Errorf("ParseSnowflake(garbage) = %d; want 0", got)
	}
}

func TestSnowflakeRoundTrip(t *testing.T) {
	if got := ParseSnowflake(Snowflake(987654321)); got != 987654321 {
		t.Errorf("round trip = %d; want 987654321", got)
	}
}
