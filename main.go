package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"assassinsBot/models"
	"assassinsBot/scheduler"
	"assassinsBot/services"
	"assassinsBot/services/assassinService"
	"assassinsBot/services/guildService"
	"assassinsBot/services/messageService"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB
var manager *assassinService.GameManager

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file")
	}

	dialector, err := openDialector(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Error resolving database: %v", err)
	}

	db, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&models.Guild{}, &models.Assassin{}, &models.ErrorLog{}, &models.Migration{})
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	err = services.RunStatusNormalizationMigration(db)
	if err != nil {
		log.Fatalf("Error running data migration: %v", err)
	}
}

// openDialector picks the database driver from DATABASE_URL. An unset URL
// falls back to a local single-file sqlite database.
func openDialector(rawURL string) (gorm.Dialector, error) {
	if rawURL == "" {
		return sqlite.Open("assassins.db"), nil
	}

	u, err := dburl.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	switch u.Driver {
	case "sqlite3":
		return sqlite.Open(u.DSN), nil
	case "mysql":
		return mysql.Open(u.DSN + "?charset=utf8mb4&parseTime=True&loc=Local"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", u.Driver)
	}
}

func main() {
	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		log.Fatalf("DISCORD_BOT_TOKEN not set in environment variables")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}

	notifier := messageService.NewDiscordNotifier(dg, db)
	manager, err = assassinService.NewGameManager(db, notifier)
	if err != nil {
		log.Fatalf("Error rehydrating game state: %v", err)
	}

	dg.AddHandler(interactionCreate)
	dg.AddHandler(messageCreate)
	dg.AddHandler(guildCreate)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		err := s.UpdateGameStatus(0, "Assassins")
		if err != nil {
			return
		}
	})

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	err = dg.Open()
	if err != nil {
		log.Fatalf("Error opening Discord session: %v", err)
	}
	defer func(dg *discordgo.Session) {
		err := dg.Close()
		if err != nil {

		}
	}(dg)

	err = services.RegisterCommands(dg)
	if err != nil {
		log.Fatalf("Error registering commands: %v", err)
	}

	scheduler.SetupCron(db, manager)

	log.Println("Bot is running. Press CTRL+C to exit.")
	select {}
}

// messageCreate serves the prefix text-command surface. Only the status
// lookup is exposed this way; everything else is a slash command.
func messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	prefix := guildService.GetPrefix(db, m.GuildID)
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	command := strings.TrimSpace(strings.TrimPrefix(m.Content, prefix))
	if command != "status" {
		return
	}

	embed := assassinService.StatusEmbed(manager, m.GuildID)
	_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	if err != nil {
		log.Printf("Error sending status message: %v", err)
	}
}

// guildCreate lazily provisions the configuration row when the bot joins a
// guild (or sees it on startup).
func guildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	err := guildService.AddGuild(db, g.ID, g.Name)
	if err != nil {
		log.Printf("Error adding guild %s: %v", g.ID, err)
	}
}

func interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		services.HandleSlashCommand(s, i, db, manager)
	case discordgo.InteractionMessageComponent:
		services.HandleComponentInteraction(s, i, db, manager)
	}
}
