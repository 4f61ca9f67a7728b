package voice

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/types"
)

func init() {
	registry.RegisterCommand(RenameCommand)
}

var RenameCommand = &types.Command{
	Name:        "voice-rename",
	Description: "Rename your temp voice channel",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "name",
			Description: "New channel name (up to 32 characters)",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		room, err := ownedRoom(i)
		if err != nil {
			return err
		}

		name := options(i)["name"].StringValue()
		if runes := []rune(name); len(runes) > 32 {
			name = string(runes[:32])
		}

		if err := room.Rename(name); err != nil {
			return err
		}
		return respond(s, i, "Channel renamed to **"+name+"**.")
	},
}
