package commands

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	_ "github.com/FolkiDevv/partysys/commands/all"
	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/logger"
	"github.com/FolkiDevv/partysys/internal/registry"
	"github.com/FolkiDevv/partysys/internal/tempvoice"
	"github.com/FolkiDevv/partysys/internal/types"
)

type Handler struct {
	commands     map[string]*types.Command
	session      *discordgo.Session
	config       *config.Config
	logger       *logger.Logger
	cooldowns    sync.Map
	commandMutex sync.RWMutex
}

func NewHandler(s *discordgo.Session, cfg *config.Config, l *logger.Logger) *Handler {
	return &Handler{
		commands: make(map[string]*types.Command),
		session:  s,
		config:   cfg,
		logger:   l,
	}
}

func (h *Handler) LoadCommands() error {
	startTime := time.Now()
	h.logger.Info("Loading commands...")

	if err := h.DeleteCommands(); err != nil {
		h.logger.Errorf("Error deleting commands: %v", err)
	}

	for name, cmd := range registry.Commands {
		if err := h.registerCommand(name, cmd); err != nil {
			return err
		}
		time.Sleep(100 * time.Millisecond)
	}

	h.logger.Infof("Successfully loaded %d commands in %v", len(registry.Commands), time.Since(startTime))
	return nil
}

func (h *Handler) registerCommand(name string, cmd *types.Command) error {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(cmd.Options))
	for _, opt := range cmd.Options {
		options = append(options, &discordgo.ApplicationCommandOption{
			Name:        opt.Name,
			Description: opt.Description,
			Type:        opt.Type,
			Required:    opt.Required,
			Choices:     opt.Choices,
		})
	}

	command := &discordgo.ApplicationCommand{
		Name:        cmd.Name,
		Description: cmd.Description,
		Options:     options,
	}
	if cmd.AdminOnly {
		perms := int64(discordgo.PermissionAdministrator)
		command.DefaultMemberPermissions = &perms
	}

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		_, err = h.session.ApplicationCommandCreate(
			h.config.Discord.ClientID,
			h.config.Discord.GuildID,
			command,
		)
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("failed to register command %s: %v", name, err)
	}

	h.commandMutex.Lock()
	h.commands[name] = cmd
	h.commandMutex.Unlock()
	return nil
}

func (h *Handler) DeleteCommands() error {
	commands, err := h.session.ApplicationCommands(h.config.Discord.ClientID, h.config.Discord.GuildID)
	if err != nil {
		return fmt.Errorf("error fetching commands: %v", err)
	}

	for _, cmd := range commands {
		if err := h.session.ApplicationCommandDelete(
			h.config.Discord.ClientID,
			h.config.Discord.GuildID,
			cmd.ID,
		); err != nil {
			return fmt.Errorf("failed to delete command %s: %v", cmd.Name, err)
		}
	}
	return nil
}

func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	userID := h.getUserID(i)
	if userID == "" {
		h.logger.Error("Could not identify the interaction user.")
		return
	}

	commandName := i.ApplicationCommandData().Name
	h.commandMutex.RLock()
	cmd, exists := h.commands[commandName]
	h.commandMutex.RUnlock()

	if !exists {
		h.logger.Errorf("Command not found: %s", commandName)
		return
	}

	if !h.checkCooldown(userID, commandName, cmd.Cooldown) {
		h.respondEphemeral(s, i, "Please wait before using this command again.")
		return
	}

	if err := cmd.Run(s, i, h.config); err != nil {
		h.handleError(s, i, commandName, err)
	}
}

// handleError is the single place where error kinds become user messages:
// user-action errors render verbatim, everything else is logged and hidden
// behind a generic reply.
func (h *Handler) handleError(s *discordgo.Session, i *discordgo.InteractionCreate, commandName string, err error) {
	var userErr *tempvoice.UserError
	if errors.As(err, &userErr) {
		h.respondEphemeral(s, i, userErr.Message)
		return
	}

	h.logger.Errorf("Error executing command %s: %v", commandName, err)
	h.respondEphemeral(s, i, tempvoice.ErrUnknownDiscord.Message)
}

func (h *Handler) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Errorf("Failed to respond to interaction: %v", err)
	}
}

func (h *Handler) checkCooldown(userID, commandName string, cooldown time.Duration) bool {
	if cooldown <= 0 {
		return true
	}

	key := userID + ":" + commandName
	now := time.Now()
	if last, ok := h.cooldowns.Load(key); ok {
		if now.Sub(last.(time.Time)) < cooldown {
			return false
		}
	}
	h.cooldowns.Store(key, now)
	return true
}

func (h *Handler) getUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
