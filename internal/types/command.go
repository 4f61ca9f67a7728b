package types

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
)

type CommandOption struct {
	Name        string
	Description string
	Type        discordgo.ApplicationCommandOptionType
	Required    bool
	Choices     []*discordgo.ApplicationCommandOptionChoice
}

type Command struct {
	Name        string
	Description string
	Category    string
	Cooldown    time.Duration
	AdminOnly   bool
	Options     []*CommandOption
	Run         func(s *discordgo.Session, i *discordgo.InteractionCreate, cfg *config.Config) error
}
