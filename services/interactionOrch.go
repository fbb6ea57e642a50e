package services

import (
	"strings"

	"assassinsBot/services/assassinService"
	"assassinsBot/services/interactionService"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

func HandleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *assassinService.GameManager) {
	customID := i.MessageComponentData().CustomID

	if strings.HasPrefix(customID, "assassins_") {
		interactionService.HandleConfirmation(s, i, db, m, customID)
	}
}
