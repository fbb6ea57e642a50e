package guildService

import (
	"fmt"
	"regexp"

	"assassinsBot/services/common"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

var prefixPattern = regexp.MustCompile(`^[a-zA-Z]{1,5}$`)

func SetAssassinsChannel(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsAdmin(s, i) {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "You are not authorized to use this command.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	_, err := GetGuildInfo(s, db, i.GuildID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	err = SetChannel(db, i.GuildID, ChannelTypeAssassins, i.ChannelID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
		Title:       "Assassins Channel",
		Description: fmt.Sprintf("Assassins announcements will now be sent to <#%s>.", i.ChannelID),
		Color:       common.ColorGreen,
	}, true)
}

func SetPrefixCommand(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	if !common.IsAdmin(s, i) {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "You are not authorized to use this command.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			common.SendError(s, i, err, db)
		}
		return
	}

	options := i.ApplicationCommandData().Options
	prefix := options[0].StringValue()

	if !prefixPattern.MatchString(prefix) {
		common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
			Title:       "Prefix",
			Description: "Invalid prefix. Prefixes must be 1-5 alphabetic characters.",
			Color:       common.ColorRed,
		}, true)
		return
	}

	_, err := GetGuildInfo(s, db, i.GuildID)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	err = SetPrefix(db, i.GuildID, prefix)
	if err != nil {
		common.SendError(s, i, err, db)
		return
	}

	common.RespondEmbed(s, i, db, &discordgo.MessageEmbed{
		Title:       "Prefix",
		Description: fmt.Sprintf("Command prefix set to `%s`.", prefix),
		Color:       common.ColorGreen,
	}, true)
}
