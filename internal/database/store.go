package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/FolkiDevv/partysys/internal/models"
)

const queryTimeout = 5 * time.Second

func (d *Database) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}

// GuildConfig returns the configuration row for a guild, or nil if the guild
// has not been set up yet. A missing row is not an error.
func (d *Database) GuildConfig(guildID string) (*models.Guild, error) {
	ctx, cancel := d.ctx()
	defer cancel()

	var guild models.Guild
	err := d.db.WithContext(ctx).Where("dis_id = ?", guildID).First(&guild).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: find guild config %s: %v", guildID, err)
	}
	return &guild, nil
}

func (d *Database) UpsertGuildConfig(guildID, advChannelID string) (*models.Guild, error) {
	ctx, cancel := d.ctx()
	defer cancel()

	guild := models.Guild{GuildID: guildID, AdvChannelID: advChannelID}
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dis_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"dis_adv_channel_id", "updated_at"}),
		}).
		Create(&guild).Error
	if err != nil {
		return nil, fmt.Errorf("store: upsert guild config %s: %v", guildID, err)
	}
	return d.GuildConfig(guildID)
}

func (d *Database) CreatorChannels(guildConfigID uint) ([]models.CreatorChannel, error) {
	ctx, cancel := d.ctx()
	defer cancel()

	var channels []models.CreatorChannel
	err := d.db.WithContext(ctx).Where("server_id = ?", guildConfigID).Find(&channels).Error
	if err != nil {
		return nil, fmt.Errorf("store: list creator channels for config %d: %v", guildConfigID, err)
	}
	return channels, nil
}

func (d *Database) UpsertCreatorChannel(cc *models.CreatorChannel) error {
	ctx, cancel := d.ctx()
	defer cancel()

	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "dis_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"server_id", "dis_category_id", "def_name", "def_user_limit", "updated_at",
			}),
		}).
		Create(cc).Error
	if err != nil {
		return fmt.Errorf("store: upsert creator channel %s: %v", cc.ChannelID, err)
	}
	return nil
}

func (d *Database) CreateTempChannel(tc *models.TempChannel) error {
	ctx, cancel := d.ctx()
	defer cancel()

	if err := d.db.WithContext(ctx).Create(tc).Error; err != nil {
		return fmt.Errorf("store: create temp channel %s: %v", tc.ChannelID, err)
	}
	return nil
}

func (d *Database) MarkTempChannelDeleted(channelID string) error {
	ctx, cancel := d.ctx()
	defer cancel()

	err := d.db.WithContext(ctx).Model(&models.TempChannel{}).
		Where("dis_id = ? AND deleted = ?", channelID, false).
		Update("deleted", true).Error
	if err != nil {
		return fmt.Errorf("store: mark temp channel %s deleted: %v", channelID, err)
	}
	return nil
}

func (d *Database) SetTempChannelOwner(channelID, ownerID string) error {
	ctx, cancel := d.ctx()
	defer cancel()

	err := d.db.WithContext(ctx).Model(&models.TempChannel{}).
		Where("dis_id = ?", channelID).
		Update("dis_owner_id", ownerID).Error
	if err != nil {
		return fmt.Errorf("store: set temp channel %s owner: %v", channelID, err)
	}
	return nil
}

// SetTempChannelAdvMessage stores or clears (nil) the advertisement message id
// attached to a temp channel row.
func (d *Database) SetTempChannelAdvMessage(channelID string, messageID *string) error {
	ctx, cancel := d.ctx()
	defer cancel()

	err := d.db.WithContext(ctx).Model(&models.TempChannel{}).
		Where("dis_id = ?", channelID).
		Update("dis_adv_msg_id", messageID).Error
	if err != nil {
		return fmt.Errorf("store: set temp channel %s adv message: %v", channelID, err)
	}
	return nil
}

// ActiveTempChannels lists rows not marked deleted. Used at startup to drive
// the restore path.
func (d *Database) ActiveTempChannels() ([]models.TempChannel, error) {
	ctx, cancel := d.ctx()
	defer cancel()

	var channels []models.TempChannel
	err := d.db.WithContext(ctx).Where("deleted = ?", false).Find(&channels).Error
	if err != nil {
		return nil, fmt.Errorf("store: list active temp channels: %v", err)
	}
	return channels, nil
}

func (d *Database) UpsertBan(guildConfigID uint, creatorID, bannedID string, banned bool) error {
	ctx, cancel := d.ctx()
	defer cancel()

	var ban models.Ban
	err := d.db.WithContext(ctx).
		Where("server_id = ? AND dis_creator_id = ? AND dis_banned_id = ?",
			guildConfigID, creatorID, bannedID).
		First(&ban).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ban = models.Ban{
			GuildConfigID: guildConfigID,
			CreatorID:     creatorID,
			BannedID:      bannedID,
			Banned:        banned,
		}
		err = d.db.WithContext(ctx).Create(&ban).Error
	case err == nil:
		err = d.db.WithContext(ctx).Model(&ban).Update("banned", banned).Error
	}
	if err != nil {
		return fmt.Errorf("store: upsert ban (%d, %s, %s): %v", guildConfigID, creatorID, bannedID, err)
	}
	return nil
}

// ActiveBans lists banned=true rows scoped by the creator identity.
func (d *Database) ActiveBans(guildConfigID uint, creatorID string) ([]models.Ban, error) {
	ctx, cancel := d.ctx()
	defer cancel()

	var bans []models.Ban
	err := d.db.WithContext(ctx).
		Where("server_id = ? AND dis_creator_id = ? AND banned = ?",
			guildConfigID, creatorID, true).
		Find(&bans).Error
	if err != nil {
		return nil, fmt.Errorf("store: list bans for creator %s: %v", creatorID, err)
	}
	return bans, nil
}

func (d *Database) BanByID(id uint) (*models.Ban, error) {
	ctx, cancel := d.ctx()
	defer cancel()

	var ban models.Ban
	err := d.db.WithContext(ctx).First(&ban, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: find ban %d: %v", id, err)
	}
	return &ban, nil
}

func (d *Database) SaveBan(ban *models.Ban) error {
	ctx, cancel := d.ctx()
	defer cancel()

	if err := d.db.WithContext(ctx).Save(ban).Error; err != nil {
		return fmt.Errorf("store: save ban %d: %v", ban.ID, err)
	}
	return nil
}
