package tempvoice

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/FolkiDevv/partysys/internal/metrics"
)

// Adv owns the single "looking for group" message of one room. Existence of
// the message is the sole truth of "is there an ad"; deleteAfter means
// nothing without one.
type Adv struct {
	room *Room

	messageID   string
	text        string
	deleteAfter time.Time

	// deferredUpdate flags that an update arrived before the message
	// existed, so the next one is a duplicate and gets suppressed.
	deferredUpdate bool
}

func newAdv(room *Room) *Adv {
	return &Adv{room: room}
}

func (a *Adv) Live() bool {
	return a.messageID != ""
}

// expired reports whether the ad has a live message with an elapsed expiry.
func (a *Adv) expired(now time.Time) bool {
	return a.Live() && !a.deleteAfter.IsZero() && !now.Before(a.deleteAfter)
}

// attach binds the ad to an already-existing message, used by the restore
// path after a restart.
func (a *Adv) attach(messageID string) {
	a.messageID = messageID
}

func (a *Adv) send(text string) error {
	advChannelID := a.room.server.AdvChannelID()
	if advChannelID == "" {
		return ErrNotConfigured
	}

	a.text = text
	a.setDeleteAfter()

	embed, components, err := a.render()
	if err != nil {
		return err
	}

	msg, err := a.room.server.platform.SendMessage(advChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return fmt.Errorf("send adv for %s: %w", a.room.channel.ID, err)
	}

	a.messageID = msg.ID
	a.deferredUpdate = false
	if err := a.room.server.store.SetTempChannelAdvMessage(a.room.channel.ID, &msg.ID); err != nil {
		return err
	}

	metrics.AdvsSent.WithLabelValues(a.room.server.guildID).Inc()
	return nil
}

func (a *Adv) update(text string) error {
	if !a.Live() {
		if a.deferredUpdate {
			return nil
		}
		a.deferredUpdate = true
		return nil
	}

	if text != "" {
		a.text = text
	}
	a.setDeleteAfter()

	embed, components, err := a.render()
	if err != nil {
		return err
	}

	err = a.room.server.platform.EditMessage(
		a.room.server.AdvChannelID(), a.messageID, embed, components,
	)
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		// Message is gone upstream, drop local state.
		return a.delete()
	case discordCode(err) == codeEditRateLimited:
		if err := a.delete(); err != nil {
			return err
		}
		return a.send(a.text)
	}
	return fmt.Errorf("update adv for %s: %w", a.room.channel.ID, err)
}

// delete removes the ad message best-effort: not-found is fine, a transient
// 500 triggers one refetch-then-delete. Local and persisted state are cleared
// even when the platform call fails.
func (a *Adv) delete() error {
	var deleteErr error
	if a.Live() {
		advChannelID := a.room.server.AdvChannelID()
		err := a.room.server.platform.DeleteMessage(advChannelID, a.messageID)
		switch {
		case err == nil || isNotFound(err):
		case isTransientServerError(err):
			if msg, ferr := a.room.server.platform.Message(advChannelID, a.messageID); ferr == nil {
				if derr := a.room.server.platform.DeleteMessage(advChannelID, msg.ID); derr != nil && !isNotFound(derr) {
					deleteErr = derr
				}
			}
		default:
			deleteErr = err
		}
	}

	a.messageID = ""
	a.deleteAfter = time.Time{}
	// Drop the cached join link too; the next ad re-resolves it, replacing
	// an invite that may have been revoked in the meantime.
	a.room.invite = ""
	if err := a.room.server.store.SetTempChannelAdvMessage(a.room.channel.ID, nil); err != nil && deleteErr == nil {
		deleteErr = err
	}
	return deleteErr
}

// setDeleteAfter recomputes expiry from occupancy: unlimited rooms get a
// short unconditional expiry, full rooms a longer one, partially filled
// rooms never expire on their own.
func (a *Adv) setDeleteAfter() {
	cfg := a.room.server.cfg
	switch members := len(a.room.members()); {
	case a.room.channel.UserLimit == 0:
		a.deleteAfter = time.Now().Add(cfg.AdvDeleteAfterUnlimited())
	case members >= a.room.channel.UserLimit:
		a.deleteAfter = time.Now().Add(cfg.AdvDeleteAfterFull())
	default:
		a.deleteAfter = time.Time{}
	}
}

func (a *Adv) render() (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	members := a.room.members()
	embed := advEmbed(a.room, a.text, members, a.room.server.cfg.Adv.DisplayUsersLimit)

	inviteURL, err := a.room.inviteURL()
	if err != nil {
		return nil, nil, err
	}

	full := a.room.channel.UserLimit > 0 && len(members) >= a.room.channel.UserLimit
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Join",
					Style:    discordgo.LinkButton,
					URL:      inviteURL,
					Disabled: full,
				},
			},
		},
	}
	return embed, components, nil
}
