package assassinService

import (
	"errors"
	"fmt"

	"assassinsBot/models"

	"gorm.io/gorm"
)

// Columns GetAllPlayers may filter on. The filter value itself is always
// parameterized; the column name never comes from user input.
var playerFilterColumns = map[string]bool{
	"guild_id": true,
	"status":   true,
	"email":    true,
}

// RegisterPlayer inserts a new Spectator row in a single statement and relies
// on the unique indexes for duplicate prevention. A duplicate key error is
// translated into ErrAlreadyRegistered or ErrEmailTaken depending on which
// identity collided.
func RegisterPlayer(db *gorm.DB, guildID, name, email, discordID, photoURL string) (*models.Assassin, error) {
	player := &models.Assassin{
		GuildID:   guildID,
		Name:      name,
		Email:     email,
		DiscordID: discordID,
		PhotoURL:  photoURL,
		Status:    models.StatusSpectator,
	}

	result := db.Create(player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			if _, err := GetPlayerByDiscordID(db, discordID); err == nil {
				return nil, ErrAlreadyRegistered
			}
			return nil, ErrEmailTaken
		}
		return nil, result.Error
	}

	return player, nil
}

func GetPlayerByDiscordID(db *gorm.DB, discordID string) (*models.Assassin, error) {
	var player models.Assassin
	result := db.Where("discord_id = ?", discordID).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, result.Error
	}
	return &player, nil
}

func GetPlayerByEmail(db *gorm.DB, email string) (*models.Assassin, error) {
	var player models.Assassin
	result := db.Where("email = ?", email).First(&player)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, result.Error
	}
	return &player, nil
}

// SetPlayerStatus updates the status unconditionally. Transition legality is
// the game manager's responsibility.
func SetPlayerStatus(db *gorm.DB, discordID string, status string) error {
	return db.Model(&models.Assassin{}).Where("discord_id = ?", discordID).Update("status", status).Error
}

// GetAllPlayers returns every player, optionally narrowed by a single
// equality predicate on an allowed column.
func GetAllPlayers(db *gorm.DB, column string, value string) ([]models.Assassin, error) {
	var players []models.Assassin

	query := db
	if column != "" {
		if !playerFilterColumns[column] {
			return nil, fmt.Errorf("filter on disallowed column %q", column)
		}
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}

	result := query.Find(&players)
	return players, result.Error
}

// DeletePlayer removes the row outright. The delete must be unscoped: a
// soft-deleted tombstone would keep holding the email and discord_id unique
// indexes and block the player from ever registering again.
func DeletePlayer(db *gorm.DB, discordID string) error {
	return db.Unscoped().Where("discord_id = ?", discordID).Delete(&models.Assassin{}).Error
}
