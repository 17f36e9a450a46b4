package models

import "time"

// Notification kinds.
const (
	NotificationTypeComment = "comment"
	NotificationTypeAnswer  = "answer"
	NotificationTypeChat    = "chat"
)

// Notification is a polled message addressed to one user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:255;not null;index:idx_notifications_user_read" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Link      *string   `json:"link"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
