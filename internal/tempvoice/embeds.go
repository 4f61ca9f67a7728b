package tempvoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	colorSearching = 0x57F287
	colorFull      = 0x303136
	colorNeutral   = 0x5865F2
)

func displayName(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

func mention(m *discordgo.Member) string {
	return "<@" + m.User.ID + ">"
}

// advUserList renders the occupant list: owner pinned first, then the rest up
// to the display cap with an overflow count, then the free-slot tail.
func advUserList(r *Room, members []*discordgo.Member, displayLimit int) []string {
	var lines []string
	userLimit := r.channel.UserLimit

	for _, m := range members {
		if m.User.ID == r.owner.User.ID {
			lines = append([]string{"👑 " + mention(m)}, lines...)
		} else {
			lines = append(lines, "👤 "+mention(m))
		}
	}

	if len(lines) > displayLimit {
		overflow := len(lines) - displayLimit
		lines = lines[:displayLimit]
		lines = append(lines, fmt.Sprintf("...\nAnd 👤 %d more members.", overflow))
	}

	switch free := userLimit - len(members); {
	case userLimit == 0:
		lines = append(lines, "...\nUnlimited free slots.")
	case free > displayLimit:
		lines = append(lines, fmt.Sprintf("...\n%d free slots left.", free))
	default:
		for i := 0; i < free; i++ {
			lines = append(lines, "▢")
		}
	}

	return lines
}

func advEmbed(r *Room, customText string, members []*discordgo.Member, displayLimit int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    r.channel.Name,
			IconURL: r.owner.User.AvatarURL(""),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	var text []string
	if customText != "" {
		text = append(text, "📢 "+customText+"\n")
	}
	text = append(text, advUserList(r, members, displayLimit)...)
	embed.Description = strings.Join(text, "\n")

	userLimit := r.channel.UserLimit
	switch {
	case userLimit == 0:
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "🔎 Looking for group. No member limit."}
		embed.Color = colorSearching
	case len(members) >= userLimit:
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Channel is full ⛔"}
		embed.Color = colorFull
	default:
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("🔎 Looking for group. +%d", userLimit-len(members)),
		}
		embed.Color = colorSearching
	}

	return embed
}

func controlEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Temp channel control",
		Description: "This channel is yours. Use the `/voice-*` commands here to " +
			"rename it, change its user limit or privacy, manage access, " +
			"publish an advertisement or hand the channel to someone else.",
		Color: colorNeutral,
	}
}

func reminderEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Looking for more members?",
		Description: "Your channel still has free slots, so an advertisement " +
			"was published for you. Use `/voice-adv` to edit or remove it.",
		Color: colorNeutral,
	}
}
