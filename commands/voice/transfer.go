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
	registry.RegisterCommand(TransferCommand)
}

var TransferCommand = &types.Command{
	Name:        "voice-transfer",
	Description: "Transfer ownership of your temp voice channel to another member",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "member",
			Description: "New owner of the channel",
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
		if user.ID == room.Owner().User.ID {
			return tempvoice.ErrAlreadyOwner
		}
		member, err := s.GuildMember(i.GuildID, user.ID)
		if err != nil {
			return err
		}

		if err := room.ChangeOwner(member); err != nil {
			return err
		}
		if room.AdvLive() {
			if err := room.UpdateAdv(""); err != nil {
				return err
			}
		}
		return respond(s, i, "**"+user.Username+"** is now the owner of this channel.")
	},
}
