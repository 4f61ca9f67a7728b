package voice

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/tempvoice"
	"github.com/FolkiDevv/partysys/internal/types"
)

func init() {
	registry.RegisterCommand(KickCommand)
}

var KickCommand = &types.Command{
	Name:        "voice-kick",
	Description: "Disconnect a member from your temp voice channel",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "member",
			Description: "Member to disconnect",
			Type:        discordgo.ApplicationCommandOptionUser,
			Required:    true,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		room, err := ownedRoom(i)
		if err != nil {
			return err
		}
		if len(room.Members()) <= 1 {
			return tempvoice.ErrNoUsersInChannel
		}

		user := options(i)["member"].UserValue(s)
		member, err := s.GuildMember(i.GuildID, user.ID)
		if err != nil {
			return err
		}

		if err := room.Kick(member); err != nil {
			return err
		}
		return respond(s, i, "**"+user.Username+"** was disconnected from the channel.")
	},
}
