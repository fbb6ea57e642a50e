package interactionService

import (
	"errors"
	"strings"

	"assassinsBot/services/assassinService"
	"assassinsBot/services/common"
	"assassinsBot/services/messageService"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

// HandleConfirmation resolves a Confirm/Cancel button click for the leave and
// unregister prompts. CustomID layout: assassins_<action>_<decision>_<userID>.
func HandleConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *assassinService.GameManager, customID string) {
	parts := strings.Split(strings.TrimPrefix(customID, "assassins_"), "_")
	if len(parts) != 3 {
		return
	}
	action, decision, userID := parts[0], parts[1], parts[2]

	// Only the prompted user may answer their own prompt.
	if clickerID(i) != userID {
		return
	}

	if !messageService.ClaimConfirmation(i.GuildID, action, userID) {
		updatePrompt(s, i, db, action, userID, &discordgo.MessageEmbed{
			Title:       "Expired",
			Description: "This confirmation has expired. Please run the command again.",
			Color:       common.ColorRed,
		})
		return
	}

	if decision == "cancel" {
		updatePrompt(s, i, db, action, userID, &discordgo.MessageEmbed{
			Title:       "Cancelled",
			Description: "No changes were made.",
			Color:       common.ColorPrimary,
		})
		return
	}

	switch action {
	case "leave":
		confirmLeave(s, i, db, m, userID)
	case "unregister":
		confirmUnregister(s, i, db, m, userID)
	}
}

func confirmLeave(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *assassinService.GameManager, userID string) {
	_, err := m.ConfirmLeave(i.GuildID, userID)
	if err != nil {
		var gameErr assassinService.GameError
		if errors.As(err, &gameErr) {
			updatePrompt(s, i, db, "leave", userID, &discordgo.MessageEmbed{
				Title:       "Leave",
				Description: gameErr.Error(),
				Color:       common.ColorRed,
			})
			return
		}
		common.SendError(s, i, err, db)
		return
	}

	updatePrompt(s, i, db, "leave", userID, &discordgo.MessageEmbed{
		Title:       "Leave",
		Description: "You have forfeited the current game and are now declared dead.",
		Color:       common.ColorGreen,
	})
}

func confirmUnregister(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *assassinService.GameManager, userID string) {
	err := m.ConfirmUnregister(i.GuildID, userID)
	if err != nil {
		var gameErr assassinService.GameError
		if errors.As(err, &gameErr) {
			updatePrompt(s, i, db, "unregister", userID, &discordgo.MessageEmbed{
				Title:       "Unregister",
				Description: gameErr.Error(),
				Color:       common.ColorRed,
			})
			return
		}
		common.SendError(s, i, err, db)
		return
	}

	updatePrompt(s, i, db, "unregister", userID, &discordgo.MessageEmbed{
		Title:       "Unregister",
		Description: "Successfully unregistered from the Assassins game.",
		Color:       common.ColorGreen,
	})
}

// updatePrompt rewrites the prompt message in place with disabled buttons.
func updatePrompt(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, action, userID string, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: messageService.GetConfirmationButtons(action, userID, true),
		},
	})
	if err != nil {
		common.SendError(s, i, err, db)
	}
}

func clickerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
