package voice

import (
	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/internal/tempvoice"
)

var manager *tempvoice.Manager

// SetManager injects the temp-voice registry before commands are loaded.
func SetManager(m *tempvoice.Manager) {
	manager = m
}

func server(i *discordgo.InteractionCreate) (*tempvoice.Server, error) {
	srv := manager.Server(i.GuildID)
	if srv == nil {
		return nil, tempvoice.ErrNotConfigured
	}
	return srv, nil
}

// ownedRoom resolves the room the invoking member may manage. Using the
// command from another temp channel's chat is rejected.
func ownedRoom(i *discordgo.InteractionCreate) (*tempvoice.Room, error) {
	srv, err := server(i)
	if err != nil {
		return nil, err
	}

	room := srv.RoomOwnedBy(i.Member, i.ChannelID)
	if room == nil {
		return nil, tempvoice.ErrNoRoom
	}
	if srv.IsTempChannel(i.ChannelID) && room.Channel().ID != i.ChannelID {
		return nil, tempvoice.ErrAlienInterface
	}
	return room, nil
}

func options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
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
