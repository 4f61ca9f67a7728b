package voice

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/types"
)

func init() {
	registry.RegisterCommand(BanCommand)
}

var BanCommand = &types.Command{
	Name:        "voice-ban",
	Description: "Ban a member from your temp voice channels",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "member",
			Description: "Member to ban from this and future channels",
			Type:        discordgo.ApplicationCommandOptionUser,
			Required:    true,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		room, err := ownedRoom(i)
		if err != nil {
			return err
		}

		user := options(i)["member"].UserValue(s)
		member, err := s.GuildMember(i.GuildID, user.ID)
		if err != nil {
			return err
		}

		if err := room.Ban(member); err != nil {
			return err
		}
		return respond(s, i, "**"+user.Username+"** can no longer see or join your channels.")
	},
}
