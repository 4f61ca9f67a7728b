package voice

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/internal/logger"
	"github.com/FolkiDevv/partysys/internal/metrics"
	"github.com/FolkiDevv/partysys/internal/tempvoice"
)

// Handler glues gateway voice events to the temp-voice registry.
type Handler struct {
	mgr       *tempvoice.Manager
	scheduler *tempvoice.Scheduler
	logger    *logger.Logger

	restoreOnce sync.Once
}

func NewHandler(mgr *tempvoice.Manager, scheduler *tempvoice.Scheduler, l *logger.Logger) *Handler {
	return &Handler{
		mgr:       mgr,
		scheduler: scheduler,
		logger:    l,
	}
}

func (h *Handler) HandleVoiceStateUpdate(s *discordgo.Session, e *discordgo.VoiceStateUpdate) {
	var beforeChannelID, beforeGuildID string
	if e.BeforeUpdate != nil {
		beforeChannelID = e.BeforeUpdate.ChannelID
		beforeGuildID = e.BeforeUpdate.GuildID
	}
	if e.ChannelID == beforeChannelID {
		return
	}

	h.logger.Debugf("voice state update: %s %q -> %q", e.UserID, beforeChannelID, e.ChannelID)

	if e.ChannelID != "" {
		h.handleJoin(e)
	}
	if beforeChannelID != "" {
		h.handleLeave(beforeGuildID, beforeChannelID)
	}
}

func (h *Handler) handleJoin(e *discordgo.VoiceStateUpdate) {
	srv := h.mgr.Server(e.GuildID)
	if srv == nil {
		return
	}

	switch {
	case srv.IsCreatorChannel(e.ChannelID):
		h.logger.Infof("%s joined creator channel %s", e.UserID, e.ChannelID)

		member := e.Member
		if member == nil {
			var err error
			if member, err = h.mgr.Platform().Member(e.GuildID, e.UserID); err != nil {
				h.logger.Errorf("failed to resolve member %s: %v", e.UserID, err)
				return
			}
		}

		channel, err := srv.CreateRoom(member, e.ChannelID)
		if err != nil {
			h.logger.Errorf("failed to create room for %s: %v", e.UserID, err)
			return
		}
		if channel != nil {
			h.logger.Infof("room %s created, %s moved in", channel.ID, e.UserID)
		}

	case srv.IsTempChannel(e.ChannelID):
		room := srv.Room(e.ChannelID)
		if room == nil {
			return
		}
		h.logger.Debugf("%s joined temp channel %s", e.UserID, e.ChannelID)

		room.RefreshFromPlatform()
		if err := room.UpdateAdv(""); err != nil {
			h.logger.Errorf("failed to update adv for %s: %v", e.ChannelID, err)
		}
		metrics.MembersJoined.WithLabelValues(e.GuildID).Inc()
	}
}

func (h *Handler) handleLeave(guildID, channelID string) {
	srv := h.mgr.Server(guildID)
	if srv == nil || !srv.IsTempChannel(channelID) {
		return
	}

	if len(h.mgr.Platform().ChannelMembers(guildID, channelID)) == 0 {
		h.logger.Infof("room %s deleted, it is empty", channelID)
		if err := srv.DeleteRoom(channelID); err != nil {
			h.logger.Errorf("failed to delete empty room %s: %v", channelID, err)
		}
		return
	}

	if room := srv.Room(channelID); room != nil {
		room.RefreshFromPlatform()
		if err := room.UpdateAdv(""); err != nil {
			h.logger.Errorf("failed to update adv for %s: %v", channelID, err)
		}
		metrics.MembersLeft.WithLabelValues(guildID).Inc()
	}
}

func (h *Handler) HandleChannelUpdate(s *discordgo.Session, e *discordgo.ChannelUpdate) {
	if e.Type != discordgo.ChannelTypeGuildVoice {
		return
	}

	srv := h.mgr.Server(e.GuildID)
	if srv == nil {
		return
	}

	room := srv.Room(e.ID)
	if room == nil {
		return
	}

	room.RefreshFromPlatform()
	if room.AdvLive() {
		if err := room.UpdateAdv(""); err != nil {
			h.logger.Errorf("failed to update adv for %s: %v", e.ID, err)
		}
	}
}

// HandleReady restores rooms persisted as not-deleted, then starts the
// reconciliation sweeps. Runs once per process even across reconnects.
func (h *Handler) HandleReady(s *discordgo.Session, r *discordgo.Ready) {
	h.restoreOnce.Do(func() {
		h.restoreRooms()
		h.scheduler.Start()
	})
}

func (h *Handler) restoreRooms() {
	rows, err := h.mgr.Store().ActiveTempChannels()
	if err != nil {
		h.logger.Errorf("failed to list active temp channels: %v", err)
		return
	}

	for _, row := range rows {
		channel, err := h.mgr.Platform().Channel(row.ChannelID)
		if err != nil {
			h.logger.Warnf("temp channel %s is gone, marking deleted", row.ChannelID)
			if err := h.mgr.Store().MarkTempChannelDeleted(row.ChannelID); err != nil {
				h.logger.Errorf("failed to mark %s deleted: %v", row.ChannelID, err)
			}
			continue
		}

		srv := h.mgr.Server(channel.GuildID)
		if srv == nil {
			continue
		}

		srv.RestoreRoom(channel, row.OwnerID, row.CreatorID, row.AdvMessageID)
		if len(h.mgr.Platform().ChannelMembers(channel.GuildID, channel.ID)) == 0 {
			if err := srv.DeleteRoom(channel.ID); err != nil {
				h.logger.Errorf("failed to delete empty restored room %s: %v", channel.ID, err)
			}
		} else {
			h.logger.Infof("room %s restored", channel.ID)
		}

		time.Sleep(100 * time.Millisecond)
	}
	h.logger.Info("Restored all temp channels")
}
