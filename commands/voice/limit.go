package voice

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/tempvoice"
	"github.com/FolkiDevv/partysys/internal/types"
)

func init() {
	registry.RegisterCommand(LimitCommand)
}

var LimitCommand = &types.Command{
	Name:        "voice-limit",
	Description: "Change the user limit of your temp voice channel",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "limit",
			Description: "New user limit, 0 for unlimited",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		room, err := ownedRoom(i)
		if err != nil {
			return err
		}

		limit, err := strconv.Atoi(options(i)["limit"].StringValue())
		if err != nil || limit < 0 || limit > 99 {
			return tempvoice.ErrNumbersOnly
		}

		if err := room.SetUserLimit(limit); err != nil {
			return err
		}
		room.RefreshFromPlatform()
		if err := room.UpdateAdv(""); err != nil {
			return err
		}

		if limit == 0 {
			return respond(s, i, "User limit removed.")
		}
		return respond(s, i, fmt.Sprintf("User limit set to **%d**.", limit))
	},
}
