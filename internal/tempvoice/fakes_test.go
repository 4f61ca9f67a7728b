package tempvoice

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/logger"
	"github.com/FolkiDevv/partysys/internal/models"
)

func testLogger() *logger.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logger.Logger{Logger: l}
}

func restError(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status},
		Message:  &discordgo.APIErrorMessage{Code: code},
	}
}

func notFoundErr() error {
	return restError(404, discordgo.ErrCodeUnknownChannel)
}

type fakeOverwrite struct {
	kind  discordgo.PermissionOverwriteType
	allow int64
	deny  int64
}

// fakePlatform is an in-memory Platform: channels, members, voice occupancy
// and messages live in maps, and error hooks let tests inject specific
// platform failures.
type fakePlatform struct {
	mu sync.Mutex

	botID    string
	channels map[string]*discordgo.Channel
	members  map[string]*discordgo.Member
	voice    map[string][]string
	messages map[string]map[string]*discordgo.Message
	invites  map[string][]*discordgo.Invite
	perms    map[string]map[string]fakeOverwrite

	seq int

	moveErr error
	sendErr error

	// one-shot error hooks, consumed by the next matching call
	editMsgErr   error
	deleteMsgErr error

	deletedChannels []string
	deletedMessages []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		botID:    "bot",
		channels: make(map[string]*discordgo.Channel),
		members:  make(map[string]*discordgo.Member),
		voice:    make(map[string][]string),
		messages: make(map[string]map[string]*discordgo.Message),
		invites:  make(map[string][]*discordgo.Invite),
		perms:    make(map[string]map[string]fakeOverwrite),
	}
}

func (p *fakePlatform) nextID(prefix string) string {
	p.seq++
	return fmt.Sprintf("%s%d", prefix, p.seq)
}

func (p *fakePlatform) addChannel(ch *discordgo.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels[ch.ID] = ch
}

func (p *fakePlatform) addMember(m *discordgo.Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members[m.User.ID] = m
}

func (p *fakePlatform) putInVoice(channelID string, userIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range userIDs {
		p.removeFromVoiceLocked(id)
		p.voice[channelID] = append(p.voice[channelID], id)
	}
}

func (p *fakePlatform) removeFromVoiceLocked(userID string) {
	for ch, ids := range p.voice {
		for idx, id := range ids {
			if id == userID {
				p.voice[ch] = append(ids[:idx], ids[idx+1:]...)
				break
			}
		}
	}
}

func (p *fakePlatform) messageCount(channelID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[channelID])
}

func (p *fakePlatform) overwrite(channelID, targetID string) (fakeOverwrite, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ov, ok := p.perms[channelID][targetID]
	return ov, ok
}

func (p *fakePlatform) BotUserID() string { return p.botID }

func (p *fakePlatform) Channel(id string) (*discordgo.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.channels[id]
	if !ok {
		return nil, notFoundErr()
	}
	return ch, nil
}

func (p *fakePlatform) CreateVoiceChannel(guildID, parentID, name string, userLimit int) (*discordgo.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := &discordgo.Channel{
		ID:        p.nextID("vc"),
		GuildID:   guildID,
		ParentID:  parentID,
		Name:      name,
		UserLimit: userLimit,
		Type:      discordgo.ChannelTypeGuildVoice,
	}
	p.channels[ch.ID] = ch
	return ch, nil
}

func (p *fakePlatform) EditChannel(channelID, name string, userLimit int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.channels[channelID]
	if !ok {
		return notFoundErr()
	}
	ch.Name = name
	ch.UserLimit = userLimit
	return nil
}

func (p *fakePlatform) DeleteChannel(channelID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.channels[channelID]; !ok {
		return notFoundErr()
	}
	delete(p.channels, channelID)
	delete(p.voice, channelID)
	p.deletedChannels = append(p.deletedChannels, channelID)
	return nil
}

func (p *fakePlatform) SetPermission(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.perms[channelID] == nil {
		p.perms[channelID] = make(map[string]fakeOverwrite)
	}
	p.perms[channelID][targetID] = fakeOverwrite{kind: targetType, allow: allow, deny: deny}
	return nil
}

func (p *fakePlatform) ClearPermission(channelID, targetID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.perms[channelID], targetID)
	return nil
}

func (p *fakePlatform) Member(guildID, userID string) (*discordgo.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.members[userID]
	if !ok {
		return nil, restError(404, discordgo.ErrCodeUnknownMember)
	}
	return m, nil
}

func (p *fakePlatform) ChannelMembers(guildID, channelID string) []*discordgo.Member {
	p.mu.Lock()
	defer p.mu.Unlock()
	var members []*discordgo.Member
	for _, id := range p.voice[channelID] {
		if m, ok := p.members[id]; ok {
			members = append(members, m)
		}
	}
	return members
}

func (p *fakePlatform) MoveMember(guildID, userID, channelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.moveErr != nil {
		return p.moveErr
	}
	p.removeFromVoiceLocked(userID)
	p.voice[channelID] = append(p.voice[channelID], userID)
	return nil
}

func (p *fakePlatform) Disconnect(guildID, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeFromVoiceLocked(userID)
	return nil
}

func (p *fakePlatform) SendMessage(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return nil, p.sendErr
	}
	msg := &discordgo.Message{
		ID:        p.nextID("m"),
		ChannelID: channelID,
		Content:   data.Content,
		Embeds:    data.Embeds,
	}
	if p.messages[channelID] == nil {
		p.messages[channelID] = make(map[string]*discordgo.Message)
	}
	p.messages[channelID][msg.ID] = msg
	return msg, nil
}

func (p *fakePlatform) EditMessage(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editMsgErr != nil {
		err := p.editMsgErr
		p.editMsgErr = nil
		return err
	}
	msg, ok := p.messages[channelID][messageID]
	if !ok {
		return restError(404, discordgo.ErrCodeUnknownMessage)
	}
	msg.Embeds = []*discordgo.MessageEmbed{embed}
	return nil
}

func (p *fakePlatform) DeleteMessage(channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteMsgErr != nil {
		err := p.deleteMsgErr
		p.deleteMsgErr = nil
		return err
	}
	if _, ok := p.messages[channelID][messageID]; !ok {
		return restError(404, discordgo.ErrCodeUnknownMessage)
	}
	delete(p.messages[channelID], messageID)
	p.deletedMessages = append(p.deletedMessages, messageID)
	return nil
}

func (p *fakePlatform) Message(channelID, messageID string) (*discordgo.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg, ok := p.messages[channelID][messageID]
	if !ok {
		return nil, restError(404, discordgo.ErrCodeUnknownMessage)
	}
	return msg, nil
}

func (p *fakePlatform) Invites(channelID string) ([]*discordgo.Invite, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.invites[channelID], nil
}

func (p *fakePlatform) CreateInvite(channelID, reason string) (*discordgo.Invite, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	inv := &discordgo.Invite{
		Code:    p.nextID("inv"),
		Inviter: &discordgo.User{ID: p.botID},
	}
	p.invites[channelID] = append(p.invites[channelID], inv)
	return inv, nil
}

// fakeStore keeps the four tables as slices.
type fakeStore struct {
	mu sync.Mutex

	guild    *models.Guild
	creators []models.CreatorChannel
	temp     []*models.TempChannel
	bans     []*models.Ban

	nextBanID        uint
	guildConfigCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) GuildConfig(guildID string) (*models.Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guildConfigCalls++
	if s.guild == nil || s.guild.GuildID != guildID {
		return nil, nil
	}
	g := *s.guild
	return &g, nil
}

func (s *fakeStore) CreatorChannels(guildConfigID uint) ([]models.CreatorChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CreatorChannel
	for _, cc := range s.creators {
		if cc.GuildConfigID == guildConfigID {
			out = append(out, cc)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateTempChannel(tc *models.TempChannel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := *tc
	row.ID = uint(len(s.temp) + 1)
	s.temp = append(s.temp, &row)
	return nil
}

func (s *fakeStore) MarkTempChannelDeleted(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tc := range s.temp {
		if tc.ChannelID == channelID && !tc.Deleted {
			tc.Deleted = true
		}
	}
	return nil
}

func (s *fakeStore) SetTempChannelOwner(channelID, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tc := range s.temp {
		if tc.ChannelID == channelID && !tc.Deleted {
			tc.OwnerID = ownerID
		}
	}
	return nil
}

func (s *fakeStore) SetTempChannelAdvMessage(channelID string, messageID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tc := range s.temp {
		if tc.ChannelID == channelID && !tc.Deleted {
			tc.AdvMessageID = messageID
		}
	}
	return nil
}

func (s *fakeStore) ActiveTempChannels() ([]models.TempChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TempChannel
	for _, tc := range s.temp {
		if !tc.Deleted {
			out = append(out, *tc)
		}
	}
	return out, nil
}

func (s *fakeStore) UpsertBan(guildConfigID uint, creatorID, bannedID string, banned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bans {
		if b.GuildConfigID == guildConfigID && b.CreatorID == creatorID && b.BannedID == bannedID {
			b.Banned = banned
			return nil
		}
	}
	s.nextBanID++
	s.bans = append(s.bans, &models.Ban{
		ID:            s.nextBanID,
		GuildConfigID: guildConfigID,
		CreatorID:     creatorID,
		BannedID:      bannedID,
		Banned:        banned,
	})
	return nil
}

func (s *fakeStore) ActiveBans(guildConfigID uint, creatorID string) ([]models.Ban, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ban
	for _, b := range s.bans {
		if b.GuildConfigID == guildConfigID && b.CreatorID == creatorID && b.Banned {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeStore) BanByID(id uint) (*models.Ban, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bans {
		if b.ID == id {
			row := *b
			return &row, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SaveBan(ban *models.Ban) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, b := range s.bans {
		if b.ID == ban.ID {
			row := *ban
			s.bans[idx] = &row
			return nil
		}
	}
	return nil
}

func (s *fakeStore) tempRow(channelID string) *models.TempChannel {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tc := range s.temp {
		if tc.ChannelID == channelID {
			row := *tc
			return &row
		}
	}
	return nil
}

const (
	testGuildID        = "guild"
	testAdvChannelID   = "adv"
	testCreatorChannel = "creator"
	testCategoryID     = "cat"
)

type fixture struct {
	platform *fakePlatform
	store    *fakeStore
	cfg      *config.TempVoiceConfig
	server   *Server
}

func testConfig() *config.TempVoiceConfig {
	return &config.TempVoiceConfig{
		ReminderDelayMin:   2,
		SweepIntervalSec:   60,
		RefreshIntervalSec: 10,
		Adv: config.AdvConfig{
			DeleteAfterUnlimitedMin: 5,
			DeleteAfterFullMin:      15,
			DisplayUsersLimit:       10,
		},
		SquadNames: []string{"Alpha", "Bravo", "Charlie"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	platform := newFakePlatform()
	platform.addChannel(&discordgo.Channel{
		ID:      testCategoryID,
		GuildID: testGuildID,
		Type:    discordgo.ChannelTypeGuildCategory,
	})
	platform.addChannel(&discordgo.Channel{
		ID:      testCreatorChannel,
		GuildID: testGuildID,
		Type:    discordgo.ChannelTypeGuildVoice,
	})
	platform.addChannel(&discordgo.Channel{
		ID:      testAdvChannelID,
		GuildID: testGuildID,
		Type:    discordgo.ChannelTypeGuildText,
	})
	platform.addMember(newMember("bot", "PartySys"))

	store := newFakeStore()
	store.guild = &models.Guild{ID: 1, GuildID: testGuildID, AdvChannelID: testAdvChannelID}
	store.creators = []models.CreatorChannel{{
		ID:            1,
		GuildConfigID: 1,
		ChannelID:     testCreatorChannel,
		CategoryID:    testCategoryID,
		NameTemplate:  "{user}'s channel",
		UserLimit:     4,
	}}

	cfg := testConfig()
	srv := newServer(testGuildID, platform, store, cfg, testLogger())
	require.NoError(t, srv.Refresh())
	require.True(t, srv.Configured())

	return &fixture{platform: platform, store: store, cfg: cfg, server: srv}
}

func newMember(id, name string) *discordgo.Member {
	return &discordgo.Member{
		GuildID: testGuildID,
		User:    &discordgo.User{ID: id, Username: name},
	}
}

// createRoom provisions a room for a fresh member standing in the creator
// channel and fails the test if provisioning voids.
func (f *fixture) createRoom(t *testing.T, userID string) *Room {
	t.Helper()

	member := newMember(userID, userID)
	f.platform.addMember(member)
	f.platform.putInVoice(testCreatorChannel, userID)

	channel, err := f.server.CreateRoom(member, testCreatorChannel)
	require.NoError(t, err)
	require.NotNil(t, channel)

	room := f.server.Room(channel.ID)
	require.NotNil(t, room)
	return room
}
