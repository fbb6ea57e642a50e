package services

import (
	"assassinsBot/services/assassinService"
	"assassinsBot/services/guildService"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

func HandleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, m *assassinService.GameManager) {
	switch i.ApplicationCommandData().Name {
	case "register":
		assassinService.Register(s, i, db, m)
	case "unregister":
		assassinService.Unregister(s, i, db, m)
	case "join":
		assassinService.Join(s, i, db, m)
	case "leave":
		assassinService.Leave(s, i, db, m)
	case "start":
		assassinService.Start(s, i, db, m)
	case "end":
		assassinService.End(s, i, db, m)
	case "status":
		assassinService.Status(s, i, db, m)
	case "profile":
		assassinService.Profile(s, i, db)
	case "set-assassins-channel":
		guildService.SetAssassinsChannel(s, i, db)
	case "set-prefix":
		guildService.SetPrefixCommand(s, i, db)
	}
}

func RegisterCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "register",
			Description: "Create and link your Assassin profile",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "name",
					Description: "Your Full Name",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "email",
					Description: "TAMU Email Address",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "photo-url",
					Description: "Link To Your Headshot Photo",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
		{
			Name:        "unregister",
			Description: "Unlink your Assassins profile",
		},
		{
			Name:        "join",
			Description: "Join the Assassins game",
		},
		{
			Name:        "leave",
			Description: "Leave the Assassins game",
		},
		{
			Name:        "start",
			Description: "Start the Assassins game",
		},
		{
			Name:        "end",
			Description: "End the Assassins game",
		},
		{
			Name:        "status",
			Description: "Show the current Assassins game status",
		},
		{
			Name:        "profile",
			Description: "View an Assassin's profile",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "target",
					Description: "Discord User",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "set-assassins-channel",
			Description: "🛡 Set this channel for Assassins announcements - ADMIN ONLY",
		},
		{
			Name:        "set-prefix",
			Description: "🛡 Set the text command prefix for this server - ADMIN ONLY",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "prefix",
					Description: "New prefix (1-5 letters)",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := s.ApplicationCommandCreate(s.State.User.ID, "", cmd)
		if err != nil {
			return err
		}
	}

	return nil
}
