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
	registry.RegisterCommand(ReturnCommand)
}

var ReturnCommand = &types.Command{
	Name:        "voice-return",
	Description: "Reclaim ownership of the channel you created",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		srv, err := server(i)
		if err != nil {
			return err
		}

		room := srv.RoomTransferredBy(i.Member.User.ID)
		if room == nil {
			return tempvoice.ErrNoRoom
		}
		if room.Owner().User.ID == i.Member.User.ID {
			return tempvoice.ErrAlreadyOwner
		}

		if err := room.ChangeOwner(i.Member); err != nil {
			return err
		}
		if room.AdvLive() {
			if err := room.UpdateAdv(""); err != nil {
				return err
			}
		}
		return respond(s, i, "You are the owner of <#"+room.Channel().ID+"> again.")
	},
}
