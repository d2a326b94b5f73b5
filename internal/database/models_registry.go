package database

import (
	"sportsync/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.Reply{},
		&models.MatchmakingPost{},
		&models.Notification{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
	}
}

func setupJoinTables(db *gorm.DB) error {
	return db.SetupJoinTable(&models.Conversation{}, "Participants", &models.ConversationParticipant{})
}

// Migrate runs GORM AutoMigrate over every persistent model.
func Migrate(db *gorm.DB) error {
	if err := setupJoinTables(db); err != nil {
		return err
	}
	return db.AutoMigrate(PersistentModels()...)
}
