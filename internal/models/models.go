package models

import "time"

// Guild is the per-guild configuration row. A guild without one is treated
// as unconfigured and every temp-voice operation on it fails closed.
type Guild struct {
	ID           uint   `gorm:"primaryKey"`
	GuildID      string `gorm:"column:dis_id;size:32;uniqueIndex"`
	AdvChannelID string `gorm:"column:dis_adv_channel_id;size:32"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreatorChannel is an always-present voice entry point: joining it triggers
// provisioning of a temp room under CategoryID.
type CreatorChannel struct {
	ID            uint   `gorm:"primaryKey"`
	GuildConfigID uint   `gorm:"column:server_id;index"`
	ChannelID     string `gorm:"column:dis_id;size:32;uniqueIndex"`
	CategoryID    string `gorm:"column:dis_category_id;size:32"`
	NameTemplate  string `gorm:"column:def_name;size:32;default:{user}"`
	UserLimit     int    `gorm:"column:def_user_limit"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TempChannel is the durable record of one provisioned room. Rows are never
// removed, only flagged Deleted, so restarts can replay the live set.
type TempChannel struct {
	ID            uint    `gorm:"primaryKey"`
	ChannelID     string  `gorm:"column:dis_id;size:32;index"`
	GuildConfigID uint    `gorm:"column:server_id;index"`
	CreatorID     string  `gorm:"column:dis_creator_id;size:32"`
	OwnerID       string  `gorm:"column:dis_owner_id;size:32"`
	AdvMessageID  *string `gorm:"column:dis_adv_msg_id;size:32"`
	Deleted       bool    `gorm:"default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Ban rows are keyed by the room creator, not the current owner, so a ban
// list survives room re-creation and ownership transfer.
type Ban struct {
	ID            uint   `gorm:"primaryKey"`
	GuildConfigID uint   `gorm:"column:server_id;index:idx_ban_scope"`
	CreatorID     string `gorm:"column:dis_creator_id;size:32;index:idx_ban_scope"`
	BannedID      string `gorm:"column:dis_banned_id;size:32;index:idx_ban_scope"`
	Banned        bool   `gorm:"default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
