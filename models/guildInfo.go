package models

import "gorm.io/gorm"

type Guild struct {
	gorm.Model
	ID                 uint   `gorm:"primaryKey"`
	GuildID            string `gorm:"uniqueIndex; size:64"`
	GuildName          string
	Prefix             string `gorm:"default:'!'; size:8"`
	AssassinsChannelID *string
	AssassinsStarted   bool `gorm:"default:false"`
}
