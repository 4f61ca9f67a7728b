package admin

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/database"
	"github.com/FolkiDevv/partysys/internal/models"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/tempvoice"
	"github.com/FolkiDevv/partysys/internal/types"
)

var (
	db      *database.Database
	manager *tempvoice.Manager
)

// SetDatabase injects the database before commands are loaded.
func SetDatabase(d *database.Database) {
	db = d
}

// SetManager injects the temp-voice registry before commands are loaded.
func SetManager(m *tempvoice.Manager) {
	manager = m
}

func init() {
	registry.RegisterCommand(SetupCommand)
}

var SetupCommand = &types.Command{
	Name:        "voice-setup",
	Description: "Configure temp voice channels for this server",
	Category:    "Admin",
	AdminOnly:   true,
	Cooldown:    10 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "creator",
			Description: "Voice channel that spawns temp channels when joined",
			Type:        discordgo.ApplicationCommandOptionChannel,
			Required:    true,
		},
		{
			Name:        "adv_channel",
			Description: "Text channel where advertisements are published",
			Type:        discordgo.ApplicationCommandOptionChannel,
			Required:    true,
		},
		{
			Name:        "name_template",
			Description: "Channel name template, supports {user}, {num}, {roman_num} and {squad_title}",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
		{
			Name:        "user_limit",
			Description: "Default user limit for spawned channels, 0 for unlimited",
			Type:        discordgo.ApplicationCommandOptionInteger,
			Required:    false,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error {
		opts := i.ApplicationCommandData().Options
		byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
		for _, opt := range opts {
			byName[opt.Name] = opt
		}

		creator := byName["creator"].ChannelValue(s)
		advChannel := byName["adv_channel"].ChannelValue(s)

		if creator.Type != discordgo.ChannelTypeGuildVoice {
			return respond(s, i, "The creator channel must be a voice channel.")
		}
		if advChannel.Type != discordgo.ChannelTypeGuildText {
			return respond(s, i, "The advertisement channel must be a text channel.")
		}

		nameTemplate := "{user}"
		if opt, ok := byName["name_template"]; ok {
			nameTemplate = opt.StringValue()
		}
		userLimit := 0
		if opt, ok := byName["user_limit"]; ok {
			userLimit = int(opt.IntValue())
		}
		if userLimit < 0 || userLimit > 99 {
			return tempvoice.ErrNumbersOnly
		}

		guildCfg, err := db.UpsertGuildConfig(i.GuildID, advChannel.ID)
		if err != nil {
			return err
		}
		err = db.UpsertCreatorChannel(&models.CreatorChannel{
			GuildConfigID: guildCfg.ID,
			ChannelID:     creator.ID,
			CategoryID:    creator.ParentID,
			NameTemplate:  nameTemplate,
			UserLimit:     userLimit,
		})
		if err != nil {
			return err
		}

		if err := manager.ForceRefresh(i.GuildID); err != nil {
			return err
		}
		return respond(s, i, "Temp voice configured: join <#"+creator.ID+"> to create a channel.")
	},
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
