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
	registry.RegisterCommand(PrivacyCommand)
}

var PrivacyCommand = &types.Command{
	Name:        "voice-privacy",
	Description: "Change the privacy mode of your temp voice channel",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "mode",
			Description: "Who can see and join the channel",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "🔓 Public — anyone can see and join", Value: "public"},
				{Name: "🔒 Private — visible, joining needs a grant", Value: "private"},
				{Name: "🔐 Hidden — invisible without a grant", Value: "hidden"},
			},
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		room, err := ownedRoom(i)
		if err != nil {
			return err
		}

		mode, err := tempvoice.ParsePrivacy(options(i)["mode"].StringValue())
		if err != nil {
			return err
		}

		if err := room.ChangePrivacy(mode); err != nil {
			return err
		}
		room.RefreshFromPlatform()
		return respond(s, i, "Privacy mode set to **"+mode.String()+"**.")
	},
}
