package tempvoice

import (
	"github.com/bwmarrin/discordgo"
)

// sessionPlatform adapts a discordgo session to the Platform interface,
// preferring gateway state over REST where the state cache can answer.
type sessionPlatform struct {
	s *discordgo.Session
}

func NewPlatform(s *discordgo.Session) Platform {
	return &sessionPlatform{s: s}
}

func (p *sessionPlatform) BotUserID() string {
	if p.s.State != nil && p.s.State.User != nil {
		return p.s.State.User.ID
	}
	return ""
}

func (p *sessionPlatform) Channel(id string) (*discordgo.Channel, error) {
	if ch, err := p.s.State.Channel(id); err == nil {
		return ch, nil
	}
	return p.s.Channel(id)
}

func (p *sessionPlatform) CreateVoiceChannel(guildID, parentID, name string, userLimit int) (*discordgo.Channel, error) {
	return p.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:      name,
		Type:      discordgo.ChannelTypeGuildVoice,
		ParentID:  parentID,
		UserLimit: userLimit,
	})
}

func (p *sessionPlatform) EditChannel(channelID, name string, userLimit int) error {
	_, err := p.s.ChannelEdit(channelID, &discordgo.ChannelEdit{
		Name:      name,
		UserLimit: userLimit,
	})
	return err
}

func (p *sessionPlatform) DeleteChannel(channelID, reason string) error {
	_, err := p.s.ChannelDelete(channelID, discordgo.WithAuditLogReason(reason))
	return err
}

func (p *sessionPlatform) SetPermission(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error {
	return p.s.ChannelPermissionSet(channelID, targetID, targetType, allow, deny)
}

func (p *sessionPlatform) ClearPermission(channelID, targetID string) error {
	return p.s.ChannelPermissionDelete(channelID, targetID)
}

func (p *sessionPlatform) Member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := p.s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return p.s.GuildMember(guildID, userID)
}

func (p *sessionPlatform) ChannelMembers(guildID, channelID string) []*discordgo.Member {
	guild, err := p.s.State.Guild(guildID)
	if err != nil {
		return nil
	}

	var members []*discordgo.Member
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID {
			continue
		}
		if m, err := p.Member(guildID, vs.UserID); err == nil {
			members = append(members, m)
		}
	}
	return members
}

func (p *sessionPlatform) MoveMember(guildID, userID, channelID string) error {
	return p.s.GuildMemberMove(guildID, userID, &channelID)
}

func (p *sessionPlatform) Disconnect(guildID, userID string) error {
	return p.s.GuildMemberMove(guildID, userID, nil)
}

func (p *sessionPlatform) SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return p.s.ChannelMessageSendComplex(channelID, data)
}

func (p *sessionPlatform) EditMessage(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	_, err := p.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	return err
}

func (p *sessionPlatform) DeleteMessage(channelID, messageID string) error {
	return p.s.ChannelMessageDelete(channelID, messageID)
}

func (p *sessionPlatform) Message(channelID, messageID string) (*discordgo.Message, error) {
	return p.s.ChannelMessage(channelID, messageID)
}

func (p *sessionPlatform) Invites(channelID string) ([]*discordgo.Invite, error) {
	return p.s.ChannelInvites(channelID)
}

func (p *sessionPlatform) CreateInvite(channelID, reason string) (*discordgo.Invite, error) {
	return p.s.ChannelInviteCreate(channelID, discordgo.Invite{}, discordgo.WithAuditLogReason(reason))
}
