package tempvoice

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/config"
	"github.com/FolkiDevv/partysys/internal/logger"
	"github.com/FolkiDevv/partysys/internal/metrics"
	"github.com/FolkiDevv/partysys/internal/models"
)

// Server is the per-guild registry: the single authority for "does this
// channel belong to me, and in what role".
type Server struct {
	guildID  string
	platform Platform
	store    Store
	cfg      *config.TempVoiceConfig
	log      *logger.Logger

	mu              sync.RWMutex
	id              uint // guild config row id; 0 while unconfigured
	advChannelID    string
	creatorChannels map[string]models.CreatorChannel
	rooms           map[string]*Room
	lastRefresh     time.Time
	squads          *squadNames
}

func newServer(guildID string, platform Platform, store Store, cfg *config.TempVoiceConfig, log *logger.Logger) *Server {
	return &Server{
		guildID:         guildID,
		platform:        platform,
		store:           store,
		cfg:             cfg,
		log:             log,
		creatorChannels: make(map[string]models.CreatorChannel),
		rooms:           make(map[string]*Room),
		squads:          newSquadNames(cfg.SquadNames),
	}
}

func (s *Server) GuildID() string {
	return s.guildID
}

func (s *Server) ID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

func (s *Server) Configured() bool {
	return s.ID() != 0
}

func (s *Server) AdvChannelID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.advChannelID
}

// Refresh reloads this guild's configuration from the store, at most once per
// refresh interval. The creator-channel set is swapped atomically; a missing
// config row leaves the server unconfigured.
func (s *Server) Refresh() error {
	s.mu.Lock()
	if time.Since(s.lastRefresh) < s.cfg.RefreshInterval() {
		s.mu.Unlock()
		return nil
	}
	s.lastRefresh = time.Now()
	s.mu.Unlock()

	cfgRow, err := s.store.GuildConfig(s.guildID)
	if err != nil {
		return err
	}
	if cfgRow == nil {
		return nil
	}

	channels, err := s.store.CreatorChannels(cfgRow.ID)
	if err != nil {
		return err
	}
	creatorChannels := make(map[string]models.CreatorChannel, len(channels))
	for _, ch := range channels {
		creatorChannels[ch.ChannelID] = ch
	}

	s.mu.Lock()
	s.id = cfgRow.ID
	s.advChannelID = cfgRow.AdvChannelID
	s.creatorChannels = creatorChannels
	s.mu.Unlock()
	return nil
}

// ForceRefresh reloads the configuration immediately, bypassing the refresh
// rate limit. Used right after the guild settings were rewritten.
func (s *Server) ForceRefresh() error {
	s.mu.Lock()
	s.lastRefresh = time.Time{}
	s.mu.Unlock()
	return s.Refresh()
}

func (s *Server) IsCreatorChannel(channelID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.creatorChannels[channelID]
	return ok
}

func (s *Server) IsTempChannel(channelID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[channelID]
	return ok
}

func (s *Server) CreatorChannelIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.creatorChannels))
	for id := range s.creatorChannels {
		ids = append(ids, id)
	}
	return ids
}

func (s *Server) Room(channelID string) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[channelID]
}

// Rooms returns a snapshot of the live registry; sweeps iterate the copy so
// mid-tick deletions apply to the next tick only.
func (s *Server) Rooms() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// RoomOwnedBy finds the room a member currently owns. Administrators acting
// from inside a live room get that room regardless of ownership.
//
// Lock order is room-then-server: rooms re-enter s.mu on their adv and ban
// paths, so lookups inspect a snapshot instead of holding s.mu across
// Owner()/Creator() calls.
func (s *Server) RoomOwnedBy(member *discordgo.Member, interactionChannelID string) *Room {
	if interactionChannelID != "" &&
		member.Permissions&discordgo.PermissionAdministrator != 0 {
		if room := s.Room(interactionChannelID); room != nil {
			return room
		}
	}

	for _, room := range s.Rooms() {
		if room.Owner().User.ID == member.User.ID {
			return room
		}
	}
	return nil
}

// RoomTransferredBy finds a room by its creator rather than its owner, used
// to return ownership after a transfer.
func (s *Server) RoomTransferredBy(memberID string) *Room {
	for _, room := range s.Rooms() {
		if room.Creator().User.ID == memberID {
			return room
		}
	}
	return nil
}

// CreateRoom provisions a temp voice channel for a member who joined a
// creator channel. Returns nil without error when creation is legitimately
// void: unknown creator channel, vanished category, or the member left voice
// before the move completed.
func (s *Server) CreateRoom(member *discordgo.Member, creatorChannelID string) (*discordgo.Channel, error) {
	s.mu.Lock()
	creator, ok := s.creatorChannels[creatorChannelID]
	seq := len(s.rooms) + 1
	squad := s.squads.next()
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	category, err := s.platform.Channel(creator.CategoryID)
	if err != nil || category.Type != discordgo.ChannelTypeGuildCategory {
		return nil, nil
	}

	name := formatChannelName(creator.NameTemplate, displayName(member), seq, squad)
	channel, err := s.platform.CreateVoiceChannel(s.guildID, category.ID, name, creator.UserLimit)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("create voice channel: %w", err)
	}

	if err := s.store.CreateTempChannel(&models.TempChannel{
		ChannelID:     channel.ID,
		GuildConfigID: s.ID(),
		CreatorID:     member.User.ID,
		OwnerID:       member.User.ID,
	}); err != nil {
		_ = s.platform.DeleteChannel(channel.ID, "Rollback: failed to persist temp channel")
		return nil, err
	}

	room := newRoom(s, channel, member, nil)
	s.mu.Lock()
	s.rooms[channel.ID] = room
	s.mu.Unlock()

	if err := s.platform.MoveMember(s.guildID, member.User.ID, channel.ID); err != nil {
		if discordCode(err) == codeTargetNotConnected {
			// Member left the creator channel before the move went
			// through. Not an error, the room is simply void.
			if derr := s.DeleteRoom(channel.ID); derr != nil {
				s.log.Errorf("failed to delete void room %s: %v", channel.ID, derr)
			}
			return nil, nil
		}
		if derr := s.DeleteRoom(channel.ID); derr != nil {
			s.log.Errorf("failed to roll back room %s: %v", channel.ID, derr)
		}
		return nil, fmt.Errorf("move member into room: %w", err)
	}

	if err := s.applyInitialOverwrites(channel.ID, member); err != nil {
		if derr := s.DeleteRoom(channel.ID); derr != nil {
			s.log.Errorf("failed to roll back room %s: %v", channel.ID, derr)
		}
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if err := room.SendInterface(); err != nil {
		if derr := s.DeleteRoom(channel.ID); derr != nil {
			s.log.Errorf("failed to roll back room %s: %v", channel.ID, derr)
		}
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("send control interface: %w", err)
	}

	metrics.RoomsCreated.WithLabelValues(s.guildID).Inc()

	if s.Room(channel.ID) == nil {
		return nil, nil
	}
	return channel, nil
}

// applyInitialOverwrites grants the owner their control overwrite and
// proactively re-applies the creator's active ban list so bans survive room
// re-creation.
func (s *Server) applyInitialOverwrites(channelID string, owner *discordgo.Member) error {
	if err := s.platform.SetPermission(
		channelID, owner.User.ID,
		discordgo.PermissionOverwriteTypeMember, ownerPermissions, 0,
	); err != nil {
		return fmt.Errorf("grant owner overwrite: %w", err)
	}

	bans, err := s.store.ActiveBans(s.ID(), owner.User.ID)
	if err != nil {
		return err
	}
	for _, ban := range bans {
		if _, merr := s.platform.Member(s.guildID, ban.BannedID); merr != nil {
			continue
		}
		if err := s.platform.SetPermission(
			channelID, ban.BannedID,
			discordgo.PermissionOverwriteTypeMember, 0, banPermissions,
		); err != nil {
			return fmt.Errorf("reapply ban overwrite: %w", err)
		}
	}
	return nil
}

// DeleteRoom removes a room from the registry and marks its store row
// deleted. The map entry goes first so a failing platform delete can never
// leak a stale room that blocks recreation. Unknown ids are a no-op.
func (s *Server) DeleteRoom(channelID string) error {
	s.mu.Lock()
	room, ok := s.rooms[channelID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.rooms, channelID)
	s.mu.Unlock()

	deleteErr := room.Delete()
	if err := s.store.MarkTempChannelDeleted(channelID); err != nil {
		s.log.Errorf("failed to mark temp channel %s deleted: %v", channelID, err)
	}
	return deleteErr
}

// RestoreRoom reconstructs a room from persisted identifiers after a restart.
// An unresolvable owner degrades to the bot's own identity; a vanished ad
// message is treated as gone.
func (s *Server) RestoreRoom(channel *discordgo.Channel, ownerID, creatorID string, advMessageID *string) *Room {
	owner, err := s.platform.Member(s.guildID, ownerID)
	if err != nil {
		owner = s.fallbackMember(ownerID)
	}

	creator := owner
	if creatorID != ownerID {
		if creator, err = s.platform.Member(s.guildID, creatorID); err != nil {
			creator = owner
		}
	}

	room := newRoom(s, channel, owner, creator)
	s.mu.Lock()
	s.rooms[channel.ID] = room
	s.mu.Unlock()

	if advMessageID != nil && *advMessageID != "" {
		msg, err := s.platform.Message(s.AdvChannelID(), *advMessageID)
		switch {
		case err == nil:
			room.adv.attach(msg.ID)
			if uerr := room.UpdateAdv(""); uerr != nil {
				s.log.Errorf("failed to refresh restored adv for %s: %v", channel.ID, uerr)
			}
		case !isNotFound(err):
			s.log.Errorf("failed to fetch adv message for %s: %v", channel.ID, err)
		}
	}
	return room
}

func (s *Server) fallbackMember(userID string) *discordgo.Member {
	if bot, err := s.platform.Member(s.guildID, s.platform.BotUserID()); err == nil {
		return bot
	}
	return &discordgo.Member{
		GuildID: s.guildID,
		User:    &discordgo.User{ID: userID},
	}
}
