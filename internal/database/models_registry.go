package database

import "studyoverflow/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.University{},
		&models.Course{},
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.PostVote{},
		&models.CommentVote{},
		&models.Notification{},
		&models.Chat{},
		&models.ChatMember{},
		&models.ChatMessage{},
	}
}
