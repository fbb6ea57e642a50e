package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"assassinsBot/models"

	"gorm.io/gorm"
)

// RunStatusNormalizationMigration canonicalizes player status values written
// by earlier versions of the bot, which stored them in inconsistent casing.
// Guarded by the migrations table so it only ever runs once.
func RunStatusNormalizationMigration(db *gorm.DB) error {
	var existingMigration models.Migration
	result := db.Where("name = ?", "normalize_player_status").First(&existingMigration)
	if result.Error == nil && existingMigration.ID != 0 {
		return nil
	}

	log.Println("Starting player status normalization migration...")

	var players []models.Assassin
	if err := db.Find(&players).Error; err != nil {
		return fmt.Errorf("error fetching players: %v", err)
	}

	canonical := map[string]string{
		strings.ToLower(models.StatusSpectator): models.StatusSpectator,
		strings.ToLower(models.StatusAlive):     models.StatusAlive,
		strings.ToLower(models.StatusDead):      models.StatusDead,
	}

	updated := 0
	for _, player := range players {
		want, ok := canonical[strings.ToLower(player.Status)]
		if !ok {
			// Unknown legacy value, park the player as a spectator.
			want = models.StatusSpectator
		}
		if player.Status == want {
			continue
		}
		if err := db.Model(&models.Assassin{}).Where("id = ?", player.ID).
			Update("status", want).Error; err != nil {
			log.Printf("Error normalizing status for player %d: %v", player.ID, err)
			continue
		}
		updated++
	}

	migration := models.Migration{
		Name:       "normalize_player_status",
		ExecutedAt: time.Now(),
	}
	if err := db.Create(&migration).Error; err != nil {
		return fmt.Errorf("error recording migration: %v", err)
	}

	log.Printf("Player status normalization complete: %d players updated", updated)
	return nil
}
