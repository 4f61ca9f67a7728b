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
	registry.RegisterCommand(PingCommand)
}

var PingCommand = &types.Command{
	Name:        "ping",
	Description: "Show bot latency",
	Category:    "Utility",
	Cooldown:    5 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		start := time.Now()

		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags: discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			return err
		}

		latency := s.HeartbeatLatency()
		restLatency := time.Since(start)

		embed := &discordgo.MessageEmbed{
			Title:     "🏓 Pong!",
			Color:     0x5865F2,
			Timestamp: time.Now().Format(time.RFC3339),
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Gateway latency",
					Value:  fmt.Sprintf("`%dms`", latency.Milliseconds()),
					Inline: true,
				},
				{
					Name:   "REST latency",
					Value:  fmt.Sprintf("`%dms`", restLatency.Milliseconds()),
					Inline: true,
				},
				{
					Name:   "Shard ID",
					Value:  fmt.Sprintf("`%d`", s.ShardID),
					Inline: true,
				},
			},
		}

		_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Embeds: &[]*discordgo.MessageEmbed{embed},
		})
		return err
	},
}
