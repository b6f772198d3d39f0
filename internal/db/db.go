package db

import (
	"log"

	"flashlingo/internal/card"
	"flashlingo/internal/config"
	"flashlingo/internal/conversation"
	"flashlingo/internal/gamification"
	"flashlingo/internal/social"
	"flashlingo/internal/srs"
	"flashlingo/internal/user"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	gdb, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := Migrate(gdb); err != nil {
		return err
	}

	DB = gdb
	log.Printf("Database connected and migrated")
	return nil
}

// Migrate creates or updates the schema for every model.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&user.User{},
		&card.CardSet{},
		&card.Card{},
		&card.SharedCardSet{},
		&srs.CardProgress{},
		&gamification.XpEvent{},
		&gamification.UserGamification{},
		&gamification.Achievement{},
		&gamification.UserAchievement{},
		&social.Friendship{},
		&conversation.Conversation{},
	)
}
