package models

import "gorm.io/gorm"

const (
	StatusSpectator = "Spectator"
	StatusAlive     = "Alive"
	StatusDead      = "Dead"
)

type Assassin struct {
	gorm.Model
	ID          uint   `gorm:"primaryKey"`
	GuildID     string `gorm:"size:64"`
	Name        string
	Email       string `gorm:"uniqueIndex; size:255"`
	DiscordID   string `gorm:"uniqueIndex; size:64"`
	PhotoURL    string
	Wins        int    `gorm:"default:0"`
	Kills       int    `gorm:"default:0"`
	Deaths      int    `gorm:"default:0"`
	GamesPlayed int    `gorm:"default:0"`
	Status      string `gorm:"default:Spectator"`
}
