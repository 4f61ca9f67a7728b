package voice

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/types"
)

func init() {
	registry.RegisterCommand(AccessCommand)
	registry.RegisterCommand(NoAccessCommand)
}

var AccessCommand = &types.Command{
	Name:        "voice-access",
	Description: "Let a member see and join your temp voice channel",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "member",
			Description: "Member to grant access to",
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

		if err := room.GrantAccess(member); err != nil {
			return err
		}
		return respond(s, i, "**"+user.Username+"** can now see and join your channel.")
	},
}

var NoAccessCommand = &types.Command{
	Name:        "voice-noaccess",
	Description: "Revoke a member's access to your temp voice channel",
	Category:    "Voice",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "member",
			Description: "Member to revoke access from",
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

		if err := room.RevokeAccess(member); err != nil {
			return err
		}
		return respond(s, i, "**"+user.Username+"** can no longer see or join your channel.")
	},
}
