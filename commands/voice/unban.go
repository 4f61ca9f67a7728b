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
	registry.RegisterCommand(UnbanCommand)
}

var UnbanCommand = &types.Command{
	Name:        "voice-unban",
	Description: "Remove a member from your ban list",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "member",
			Description: "Member to unban",
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

		bans, err := room.ActiveBans()
		if err != nil {
			return err
		}
		var banID uint
		for _, ban := range bans {
			if ban.BannedID == user.ID {
				banID = ban.ID
				break
			}
		}
		if banID == 0 {
			return tempvoice.ErrNotBanned
		}

		unbannedID, err := room.Unban(banID)
		if err != nil {
			return err
		}
		if unbannedID == "" {
			return respond(s, i, "The member was removed from your ban list.")
		}
		return respond(s, i, "<@"+unbannedID+"> was removed from your ban list.")
	},
}
