package messageService

import (
	"assassinsBot/services/guildService"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

// Announcement is a broadcast message for a guild's configured channel.
type Announcement struct {
	Title           string
	Description     string
	Color           int
	MentionEveryone bool
}

// Notifier delivers announcements. The game manager only ever talks to this
// interface, which keeps the Discord session out of the state machine.
type Notifier interface {
	Send(guildID string, channelType guildService.ChannelType, a Announcement) error
}

type DiscordNotifier struct {
	session *discordgo.Session
	db      *gorm.DB
}

func NewDiscordNotifier(s *discordgo.Session, db *gorm.DB) *DiscordNotifier {
	return &DiscordNotifier{session: s, db: db}
}

// Send resolves the guild's channel for the given type and posts the
// announcement embed. A guild with no channel configured is skipped without
// error; channel configuration is optional.
func (n *DiscordNotifier) Send(guildID string, channelType guildService.ChannelType, a Announcement) error {
	channelID, err := guildService.GetChannel(n.db, guildID, channelType)
	if err != nil {
		return err
	}
	if channelID == nil || *channelID == "" {
		return nil
	}

	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       a.Title,
				Description: a.Description,
				Color:       a.Color,
			},
		},
	}
	if a.MentionEveryone {
		msg.Content = "@everyone"
		msg.AllowedMentions = &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone},
		}
	}

	_, err = n.session.ChannelMessageSendComplex(*channelID, msg)
	return err
}
