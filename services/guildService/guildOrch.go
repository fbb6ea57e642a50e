package guildService

import (
	"errors"

	"assassinsBot/models"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

// ChannelType names a configurable announcement channel. Each type maps to a
// fixed column on the guilds table, never to a dynamically built column name.
type ChannelType string

const (
	ChannelTypeAssassins ChannelType = "assassins"
)

const DefaultPrefix = "!"

var ErrUnknownChannelType = errors.New("unknown channel type")

func GetGuildInfo(s *discordgo.Session, db *gorm.DB, guildID string) (*models.Guild, error) {
	var guild models.Guild
	guildResult := db.Where("guild_id = ?", guildID).First(&guild)

	if guildResult.RowsAffected == 0 {
		guildInfo, err := s.Guild(guildID)
		if err != nil {
			return nil, err
		}
		newGuild := &models.Guild{GuildID: guildID, GuildName: guildInfo.Name, Prefix: DefaultPrefix}
		newGuildResult := db.Create(newGuild)
		if newGuildResult.Error != nil {
			return nil, newGuildResult.Error
		}
		guild = *newGuild
	}

	return &guild, nil
}

func AddGuild(db *gorm.DB, guildID string, guildName string) error {
	exists, err := GuildExists(db, guildID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return db.Create(&models.Guild{GuildID: guildID, GuildName: guildName, Prefix: DefaultPrefix}).Error
}

func GuildExists(db *gorm.DB, guildID string) (bool, error) {
	var count int64
	result := db.Model(&models.Guild{}).Where("guild_id = ?", guildID).Count(&count)
	return count > 0, result.Error
}

func GetAllGuilds(db *gorm.DB) ([]models.Guild, error) {
	var guilds []models.Guild
	result := db.Find(&guilds)
	return guilds, result.Error
}

// GetPrefix returns the guild's command prefix, falling back to the default
// when the guild has no configuration row yet.
func GetPrefix(db *gorm.DB, guildID string) string {
	var guild models.Guild
	result := db.Where("guild_id = ?", guildID).First(&guild)
	if result.Error != nil || guild.Prefix == "" {
		return DefaultPrefix
	}
	return guild.Prefix
}

// SetPrefix updates the prefix unconditionally. Callers validate length and
// character class before invoking.
func SetPrefix(db *gorm.DB, guildID string, prefix string) error {
	return db.Model(&models.Guild{}).Where("guild_id = ?", guildID).Update("prefix", prefix).Error
}

// SetGameStarted persists the assassins started flag for the guild.
func SetGameStarted(db *gorm.DB, guildID string, started bool) error {
	return db.Model(&models.Guild{}).Where("guild_id = ?", guildID).Update("assassins_started", started).Error
}

// GetChannel resolves the configured channel ID for the given type, or nil
// when no channel has been set.
func GetChannel(db *gorm.DB, guildID string, channelType ChannelType) (*string, error) {
	var guild models.Guild
	result := db.Where("guild_id = ?", guildID).First(&guild)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	switch channelType {
	case ChannelTypeAssassins:
		return guild.AssassinsChannelID, nil
	default:
		return nil, ErrUnknownChannelType
	}
}

func SetChannel(db *gorm.DB, guildID string, channelType ChannelType, channelID string) error {
	var column string
	switch channelType {
	case ChannelTypeAssassins:
		column = "assassins_channel_id"
	default:
		return ErrUnknownChannelType
	}

	return db.Model(&models.Guild{}).Where("guild_id = ?", guildID).Update(column, channelID).Error
}
