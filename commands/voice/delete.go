package voice

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/types"
)

func init() {
	registry.RegisterCommand(DeleteCommand)
}

var DeleteCommand = &types.Command{
	Name:        "voice-delete",
	Description: "Delete your temp voice channel",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		srv, err := server(i)
		if err != nil {
			return err
		}
		room, err := ownedRoom(i)
		if err != nil {
			return err
		}

		if err := srv.DeleteRoom(room.Channel().ID); err != nil {
			return err
		}
		return respond(s, i, "Your channel was deleted.")
	},
}
