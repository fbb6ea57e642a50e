package assassinService

import (
	"errors"
	"fmt"

	"assassinsBot/services/common"
	"assassinsBot/services/messageService"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

// Register handles /register.
func Register(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *GameManager) {
	options := i.ApplicationCommandData().Options
	name := options[0].StringValue()
	email := options[1].StringValue()
	photoURL := options[2].StringValue()

	err := m.Register(i.GuildID, interactionUserID(i), name, email, photoURL)
	if err != nil {
		respondGameError(s, i, db, "Register", err)
		return
	}

	common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
		Title:       "Register",
		Description: "Successfully registered as an Assassin!",
		Color:       common.ColorGreen,
	}, true)
}

// Unregister handles /unregister: verifies the profile exists, then shows the
// confirmation prompt. The delete happens in the component handler.
func Unregister(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *GameManager) {
	userID := interactionUserID(i)

	if err := m.RequestUnregister(userID); err != nil {
		respondGameError(s, i, db, "Unregister", err)
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Are You Sure?",
					Description: "This will permanently delete your profile. You will not be able to participate unless you register again.",
					Color:       common.ColorPrimary,
				},
			},
			Components: messageService.GetConfirmationButtons("unregister", userID, false),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}
	messageService.TrackConfirmation(s, i, "unregister", userID)
}

// Join handles /join.
func Join(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *GameManager) {
	_, err := m.Join(i.GuildID, interactionUserID(i))
	if err != nil {
		respondGameError(s, i, db, "Join", err)
		return
	}

	common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
		Title:       "Join",
		Description: "Successfully joined the Assassins game. The game will start soon.",
		Color:       common.ColorGreen,
	}, true)
}

// Leave handles /leave. Before the game starts it commits immediately; during
// a game it answers with the forfeit confirmation prompt instead.
func Leave(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *GameManager) {
	userID := interactionUserID(i)

	result, err := m.Leave(i.GuildID, userID)
	if err != nil {
		respondGameError(s, i, db, "Leave", err)
		return
	}

	if !result.ConfirmationRequired {
		common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
			Title:       "Leave",
			Description: "Successfully left the Assassins game.",
			Color:       common.ColorGreen,
		}, true)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Are You Sure?",
					Description: "The game is in progress. Leaving now will mark you as dead.",
					Color:       common.ColorPrimary,
				},
			},
			Components: messageService.GetConfirmationButtons("leave", userID, false),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}
	messageService.TrackConfirmation(s, i, "leave", userID)
}

// Start handles /start.
func Start(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *GameManager) {
	if err := m.Start(i.GuildID); err != nil {
		respondGameError(s, i, db, "Start", err)
		return
	}

	common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
		Title:       "Start",
		Description: "The Assassins game has been started.",
		Color:       common.ColorGreen,
	}, true)
}

// End handles /end.
func End(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *GameManager) {
	if err := m.End(i.GuildID); err != nil {
		respondGameError(s, i, db, "End", err)
		return
	}

	common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
		Title:       "End",
		Description: "The Assassins game has been ended.",
		Color:       common.ColorGreen,
	}, true)
}

// Status handles /status.
func Status(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *GameManager) {
	common.RespondEmbed(s, i, db, StatusEmbed(m, i.GuildID), false)
}

// StatusEmbed builds the game status embed, shared by the slash command and
// the prefix text command.
func StatusEmbed(m *GameManager, guildID string) *discordgo.MessageEmbed {
	started, alive := m.Status(guildID)

	phase := "Waiting for players"
	if started {
		phase = "In progress"
	}

	return &discordgo.MessageEmbed{
		Title: "Assassins Status",
		Description: fmt.Sprintf("**Game:** %s\n**Players Remaining:** %d\n**Target:** Not assigned",
			phase, alive),
		Color: common.ColorPrimary,
	}
}

// Profile handles /profile.
func Profile(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	options := i.ApplicationCommandData().Options
	target := options[0].UserValue(s)
	if target == nil {
		common.SendError(s, i, errors.New("profile target not resolvable"), db)
		return
	}

	player, err := GetPlayerByDiscordID(db, target.ID)
	if err != nil {
		if errors.Is(err, ErrPlayerNotFound) {
			common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
				Title:       "Profile",
				Description: "This user has not registered for the Assassins game.",
				Color:       common.ColorRed,
			}, true)
			return
		}
		common.SendError(s, i, err, db)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's Profile", player.Name),
		Description: fmt.Sprintf("**Status:** %s\n**Kills:** %d\n**Deaths:** %d\n**Wins:** %d\n**Games Played:** %d",
			player.Status, player.Kills, player.Deaths, player.Wins, player.GamesPlayed),
		Color: common.ColorPrimary,
	}
	if player.PhotoURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: player.PhotoURL}
	}

	common.RespondEmbed(s, i, db, embed, false)
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// respondGameError reports expected game errors inline and routes anything
// unexpected through the central error path.
func respondGameError(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, title string, err error) {
	var gameErr GameError
	if errors.As(err, &gameErr) {
		common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
			Title:       title,
			Description: gameErr.Error(),
			Color:       common.ColorRed,
		}, true)
		return
	}
	common.SendError(s, i, err, db)
}
