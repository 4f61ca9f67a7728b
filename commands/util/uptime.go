package util

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/types"
)

func init() {
	registry.RegisterCommand(UptimeCommand)
}

var UptimeCommand = &types.Command{
	Name:        "uptime",
	Description: "Show how long the bot has been online",
	Category:    "Utility",
	Cooldown:    5 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		uptime := time.Since(cfg.BotStartTime)

		days := int(uptime.Hours()) / 24
		hours := int(uptime.Hours()) % 24
		minutes := int(uptime.Minutes()) % 60
		seconds := int(uptime.Seconds()) % 60

		embed := &discordgo.MessageEmbed{
			Title: "⏱️ Uptime",
			Description: fmt.Sprintf(
				"Online for **%d days, %d hours, %d minutes, %d seconds**",
				days, hours, minutes, seconds,
			),
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Started at",
					Value:  cfg.BotStartTime.Format("2006-01-02 15:04:05"),
					Inline: true,
				},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
				Flags:  discordgo.MessageFlagsEphemeral,
			},
		})
	},
}
