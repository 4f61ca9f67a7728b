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
	registry.RegisterCommand(AdvCommand)
}

var AdvCommand = &types.Command{
	Name:        "voice-adv",
	Description: "Publish, edit or delete your channel advertisement",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "text",
			Description: "Custom text shown in the advertisement",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
		{
			Name:        "delete",
			Description: "Delete the current advertisement instead",
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Required:    false,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		room, err := ownedRoom(i)
		if err != nil {
			return err
		}

		opts := options(i)

		if del, ok := opts["delete"]; ok && del.BoolValue() {
			room.SuppressReminder()
			if err := room.DeleteAdv(); err != nil {
				return err
			}
			return respond(s, i, "Advertisement deleted.")
		}

		if room.Privacy() != tempvoice.PrivacyPublic {
			return tempvoice.ErrRequirePublic
		}

		room.RefreshFromPlatform()
		ch := room.Channel()
		if ch.UserLimit > 0 && len(room.Members()) >= ch.UserLimit {
			return tempvoice.ErrRoomFull
		}

		var text string
		if opt, ok := opts["text"]; ok {
			text = opt.StringValue()
		}

		if room.AdvLive() {
			if err := room.UpdateAdv(text); err != nil {
				return err
			}
			return respond(s, i, "Advertisement updated.")
		}
		if err := room.SendAdv(text); err != nil {
			return err
		}
		return respond(s, i, "Advertisement published.")
	},
}
