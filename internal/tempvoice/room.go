package tempvoice

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/internal/metrics"
	"github.com/FolkiDevv/partysys/internal/models"
)

const (
	ownerPermissions  = int64(discordgo.PermissionVoiceMoveMembers)
	accessPermissions = int64(discordgo.PermissionViewChannel |
		discordgo.PermissionVoiceConnect |
		discordgo.PermissionSendMessages)
	banPermissions = int64(discordgo.PermissionViewChannel |
		discordgo.PermissionVoiceConnect |
		discordgo.PermissionVoiceSpeak |
		discordgo.PermissionSendMessages |
		discordgo.PermissionAddReactions |
		discordgo.PermissionSendMessagesInThreads)

	reminderNoticeTTL = 2 * time.Minute
)

// Room is one temporary voice channel. creator anchors the ban list and never
// changes; owner holds the control rights and may diverge from creator via
// ownership transfer.
type Room struct {
	server *Server

	mu      sync.Mutex
	channel *discordgo.Channel
	creator *discordgo.Member
	owner   *discordgo.Member
	adv     *Adv
	privacy Privacy

	reminderAt         time.Time
	reminderSuppressed bool

	invite  string
	deleted bool
}

func newRoom(server *Server, channel *discordgo.Channel, owner, creator *discordgo.Member) *Room {
	if creator == nil {
		creator = owner
	}
	r := &Room{
		server:  server,
		channel: channel,
		creator: creator,
		owner:   owner,
		privacy: PrivacyPublic,
	}
	r.adv = newAdv(r)
	return r
}

func (r *Room) Channel() *discordgo.Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channel
}

func (r *Room) Owner() *discordgo.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner
}

func (r *Room) Creator() *discordgo.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creator
}

func (r *Room) Privacy() Privacy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.privacy
}

func (r *Room) AdvLive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adv.Live()
}

func (r *Room) Members() []*discordgo.Member {
	return r.members()
}

func (r *Room) members() []*discordgo.Member {
	return r.server.platform.ChannelMembers(r.server.guildID, r.channel.ID)
}

// RefreshFromPlatform re-reads the channel (capacity and name change out from
// under the cached reference) and recomputes the idle-reminder deadline.
func (r *Room) RefreshFromPlatform() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, err := r.server.platform.Channel(r.channel.ID); err == nil && ch.Type == discordgo.ChannelTypeGuildVoice {
		r.channel = ch
	}

	if r.privacy == PrivacyPublic &&
		!r.adv.Live() &&
		!r.reminderSuppressed &&
		r.channel.UserLimit > len(r.members()) {
		r.reminderAt = time.Now().Add(r.server.cfg.ReminderDelay())
	} else if !r.reminderAt.IsZero() {
		r.reminderAt = time.Time{}
	}
}

// ReminderDue reports whether the idle reminder should fire now.
func (r *Room) ReminderDue(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.reminderAt.IsZero() && !now.Before(r.reminderAt)
}

// AdvExpired reports whether a live ad has passed its expiry.
func (r *Room) AdvExpired(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adv.expired(now)
}

// SuppressReminder disables the idle reminder until the room state changes it
// back, used when the owner deletes their ad on purpose.
func (r *Room) SuppressReminder() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminderSuppressed = true
	r.reminderAt = time.Time{}
}

// ChangeOwner strips the old owner's control overwrite and grants it to the
// new owner. The creator identity is untouched.
func (r *Room) ChangeOwner(newOwner *discordgo.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.server.platform.ClearPermission(r.channel.ID, r.owner.User.ID); err != nil && !isNotFound(err) {
		return fmt.Errorf("clear old owner overwrite: %w", err)
	}
	if err := r.server.platform.SetPermission(
		r.channel.ID, newOwner.User.ID,
		discordgo.PermissionOverwriteTypeMember, ownerPermissions, 0,
	); err != nil {
		return fmt.Errorf("grant owner overwrite: %w", err)
	}

	r.owner = newOwner
	if err := r.server.store.SetTempChannelOwner(r.channel.ID, newOwner.User.ID); err != nil {
		return err
	}

	metrics.OwnerTransfers.WithLabelValues(r.server.guildID).Inc()
	return nil
}

func (r *Room) GrantAccess(member *discordgo.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.server.platform.SetPermission(
		r.channel.ID, member.User.ID,
		discordgo.PermissionOverwriteTypeMember, accessPermissions, 0,
	)
	if err != nil {
		return fmt.Errorf("grant access: %w", err)
	}

	metrics.AccessGrants.WithLabelValues(r.server.guildID).Inc()
	return nil
}

func (r *Room) RevokeAccess(member *discordgo.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.revokeAccess(member); err != nil {
		return err
	}
	metrics.AccessRevokes.WithLabelValues(r.server.guildID).Inc()
	return nil
}

func (r *Room) revokeAccess(member *discordgo.Member) error {
	err := r.server.platform.SetPermission(
		r.channel.ID, member.User.ID,
		discordgo.PermissionOverwriteTypeMember, 0, accessPermissions,
	)
	if err != nil {
		return fmt.Errorf("revoke access: %w", err)
	}
	return r.kick(member)
}

// Kick force-disconnects a member if they are currently in this room.
func (r *Room) Kick(member *discordgo.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.kick(member); err != nil {
		return err
	}
	metrics.Kicks.WithLabelValues(r.server.guildID).Inc()
	return nil
}

func (r *Room) kick(member *discordgo.Member) error {
	for _, m := range r.members() {
		if m.User.ID == member.User.ID {
			if err := r.server.platform.Disconnect(r.server.guildID, member.User.ID); err != nil && !isNotFound(err) {
				return fmt.Errorf("disconnect member: %w", err)
			}
			break
		}
	}
	return nil
}

// Ban upserts a ban row scoped by the creator identity, then revokes access.
func (r *Room) Ban(member *discordgo.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.server.store.UpsertBan(r.server.ID(), r.creator.User.ID, member.User.ID, true); err != nil {
		return err
	}
	if err := r.revokeAccess(member); err != nil {
		return err
	}

	metrics.Bans.WithLabelValues(r.server.guildID).Inc()
	return nil
}

// Unban flips a ban row by its own id. Returns the unbanned member's id, or
// "" when the member can no longer be resolved on the guild.
func (r *Room) Unban(banID uint) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ban, err := r.server.store.BanByID(banID)
	if err != nil {
		return "", err
	}
	if ban == nil || !ban.Banned {
		return "", ErrNotBanned
	}

	ban.Banned = false
	if err := r.server.store.SaveBan(ban); err != nil {
		return "", err
	}

	metrics.Unbans.WithLabelValues(r.server.guildID).Inc()

	member, err := r.server.platform.Member(r.server.guildID, ban.BannedID)
	if err != nil {
		return "", nil
	}
	if err := r.server.platform.ClearPermission(r.channel.ID, member.User.ID); err != nil && !isNotFound(err) {
		return "", fmt.Errorf("clear ban overwrite: %w", err)
	}
	return member.User.ID, nil
}

// ActiveBans lists the creator-scoped ban rows still in force.
func (r *Room) ActiveBans() ([]models.Ban, error) {
	r.mu.Lock()
	creatorID := r.creator.User.ID
	r.mu.Unlock()
	return r.server.store.ActiveBans(r.server.ID(), creatorID)
}

// ChangePrivacy applies the default-role overwrite for the mode and stores
// it. Any transition away from PUBLIC deletes a live advertisement.
func (r *Room) ChangePrivacy(mode Privacy) error {
	var allow, deny int64
	switch mode {
	case PrivacyPublic:
		allow = accessPermissions
	case PrivacyPrivate:
		allow = int64(discordgo.PermissionViewChannel)
		deny = int64(discordgo.PermissionVoiceConnect | discordgo.PermissionSendMessages)
	case PrivacyHidden:
		deny = accessPermissions
	default:
		return fmt.Errorf("invalid privacy mode: %v", mode)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// The @everyone role id equals the guild id.
	err := r.server.platform.SetPermission(
		r.channel.ID, r.server.guildID,
		discordgo.PermissionOverwriteTypeRole, allow, deny,
	)
	if err != nil {
		return fmt.Errorf("set default role overwrite: %w", err)
	}

	r.privacy = mode
	metrics.PrivacyChanges.WithLabelValues(r.server.guildID).Inc()

	if mode != PrivacyPublic && r.adv.Live() {
		return r.adv.delete()
	}
	return nil
}

func (r *Room) SendAdv(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.adv.Live() {
		return nil
	}
	return r.adv.send(text)
}

func (r *Room) UpdateAdv(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adv.update(text)
}

func (r *Room) DeleteAdv() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.adv.delete()
}

// SendReminder publishes an empty-text ad and drops an auto-deleting notice
// into the room chat. The deadline is cleared unconditionally so a failed
// send cannot re-fire every sweep.
func (r *Room) SendReminder() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reminderAt = time.Time{}

	if r.privacy != PrivacyPublic || r.adv.Live() {
		return nil
	}

	if err := r.adv.send(""); err != nil {
		return err
	}

	msg, err := r.server.platform.SendMessage(r.channel.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{reminderEmbed()},
	})
	if err != nil {
		return fmt.Errorf("send reminder notice: %w", err)
	}

	channelID := r.channel.ID
	platform := r.server.platform
	time.AfterFunc(reminderNoticeTTL, func() {
		_ = platform.DeleteMessage(channelID, msg.ID)
	})
	return nil
}

// SendInterface posts the control message into the room's text chat.
func (r *Room) SendInterface() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.server.platform.SendMessage(r.channel.ID, &discordgo.MessageSend{
		Content: mention(r.owner),
		Embeds:  []*discordgo.MessageEmbed{controlEmbed()},
	})
	return err
}

func (r *Room) Rename(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.server.platform.EditChannel(r.channel.ID, name, r.channel.UserLimit); err != nil {
		return fmt.Errorf("rename channel: %w", err)
	}
	r.channel.Name = name
	return nil
}

func (r *Room) SetUserLimit(limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.server.platform.EditChannel(r.channel.ID, r.channel.Name, limit); err != nil {
		return fmt.Errorf("set user limit: %w", err)
	}
	r.channel.UserLimit = limit
	return nil
}

// Delete removes the voice channel (tolerating "already gone") and cascades
// to any live advertisement. Safe to call more than once.
func (r *Room) Delete() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.deleted {
		return nil
	}
	r.deleted = true

	err := r.server.platform.DeleteChannel(r.channel.ID, "Temp channel is empty or deleted by owner.")
	if err != nil && !isNotFound(err) {
		if aerr := r.adv.delete(); aerr != nil {
			return aerr
		}
		return fmt.Errorf("delete channel: %w", err)
	}
	return r.adv.delete()
}

// inviteURL lazily resolves a join link: an existing invite created by the
// bot is reused, otherwise a fresh one is created. Called with r.mu held.
func (r *Room) inviteURL() (string, error) {
	if r.invite != "" {
		return r.invite, nil
	}

	invites, err := r.server.platform.Invites(r.channel.ID)
	if err == nil {
		botID := r.server.platform.BotUserID()
		for _, inv := range invites {
			if inv.Inviter != nil && inv.Inviter.ID == botID {
				r.invite = inviteLink(inv.Code)
				return r.invite, nil
			}
		}
	}

	inv, err := r.server.platform.CreateInvite(r.channel.ID, "Join link to this temp voice.")
	if err != nil {
		return "", fmt.Errorf("create invite: %w", err)
	}
	r.invite = inviteLink(inv.Code)
	return r.invite, nil
}

func inviteLink(code string) string {
	return "https://discord.gg/" + code
}
