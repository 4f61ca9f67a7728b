package tempvoice

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/internal/models"
)

// Discord error codes this package recovers from by name.
const (
	codeTargetNotConnected = 40032 // move target already left voice
	codeEditRateLimited    = 30046 // too many edits on an old message
)

// Platform is the narrow slice of the chat platform the temp-voice core
// needs. The production implementation wraps a discordgo session; tests
// substitute a fake.
type Platform interface {
	BotUserID() string
	Channel(id string) (*discordgo.Channel, error)
	CreateVoiceChannel(guildID, parentID, name string, userLimit int) (*discordgo.Channel, error)
	EditChannel(channelID, name string, userLimit int) error
	DeleteChannel(channelID, reason string) error
	SetPermission(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error
	ClearPermission(channelID, targetID string) error
	Member(guildID, userID string) (*discordgo.Member, error)
	ChannelMembers(guildID, channelID string) []*discordgo.Member
	MoveMember(guildID, userID, channelID string) error
	Disconnect(guildID, userID string) error
	SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error
	DeleteMessage(channelID, messageID string) error
	Message(channelID, messageID string) (*discordgo.Message, error)
	Invites(channelID string) ([]*discordgo.Invite, error)
	CreateInvite(channelID, reason string) (*discordgo.Invite, error)
}

// Store is the durable-store slice the core needs: the four tables described
// in internal/models. Implemented by internal/database.
type Store interface {
	GuildConfig(guildID string) (*models.Guild, error)
	CreatorChannels(guildConfigID uint) ([]models.CreatorChannel, error)

	CreateTempChannel(tc *models.TempChannel) error
	MarkTempChannelDeleted(channelID string) error
	SetTempChannelOwner(channelID, ownerID string) error
	SetTempChannelAdvMessage(channelID string, messageID *string) error
	ActiveTempChannels() ([]models.TempChannel, error)

	UpsertBan(guildConfigID uint, creatorID, bannedID string, banned bool) error
	ActiveBans(guildConfigID uint, creatorID string) ([]models.Ban, error)
	BanByID(id uint) (*models.Ban, error)
	SaveBan(ban *models.Ban) error
}

func discordCode(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil {
		return rest.Message.Code
	}
	return -1
}

// isNotFound reports a platform "the referenced thing is gone" response:
// unknown channel/message/member/user or a bare 404.
func isNotFound(err error) bool {
	switch discordCode(err) {
	case discordgo.ErrCodeUnknownChannel,
		discordgo.ErrCodeUnknownMessage,
		discordgo.ErrCodeUnknownMember,
		discordgo.ErrCodeUnknownUser,
		discordgo.ErrCodeUnknownInvite:
		return true
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode == 404
	}
	return false
}

// isTransientServerError matches Discord's occasional 500 with error code 0,
// which the ad deleter works around by re-fetching before deleting.
func isTransientServerError(err error) bool {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode >= 500 && discordCode(err) <= 0
	}
	return false
}
