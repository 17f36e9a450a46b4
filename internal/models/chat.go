package models

import (
	"time"

	"github.com/samber/lo"
)

// Chat is a direct or group conversation between students. Clients poll it;
// there is no push channel.
type Chat struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"size:100;not null" json:"name"`
	IsGroup   bool    `gorm:"not null" json:"is_group"`
	AvatarURL *string `json:"avatar_url"`
	CreatedBy string  `gorm:"size:255;not null" json:"created_by"`
	// LastMessage and LastMessageAt are a denormalized preview for chat lists,
	// written in the same transaction as the message.
	LastMessage   *string      `gorm:"type:text" json:"last_message"`
	LastMessageAt *time.Time   `json:"last_message_at"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Members       []ChatMember `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	MemberIDs     []string     `gorm:"-" json:"member_ids"`
}

// ChatMember is one user's membership in a chat.
type ChatMember struct {
	ChatID   uint      `gorm:"primaryKey" json:"chat_id"`
	UserID   string    `gorm:"primaryKey;size:255;index:idx_chat_members_user" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// ChatMessage is a message posted to a chat. Sender is filled in for reads.
type ChatMessage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ChatID    uint           `gorm:"not null;index:idx_chat_messages_chat_created,priority:1" json:"chat_id"`
	SenderID  string         `gorm:"size:255;not null" json:"sender_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `gorm:"index:idx_chat_messages_chat_created,priority:2" json:"created_at"`
	Sender    *AuthorProfile `gorm:"-" json:"sender,omitempty"`
}

// SyncMemberIDs copies the loaded Members into MemberIDs.
func (c *Chat) SyncMemberIDs() {
	c.MemberIDs = lo.Map(c.Members, func(m ChatMember, _ int) string { return m.UserID })
}

// HasMember reports whether userID belongs to the chat.
func (c *Chat) HasMember(userID string) bool {
	return userID != "" && lo.Contains(c.MemberIDs, userID)
}

// Recipients returns every member except senderID.
func (c *Chat) Recipients(senderID string) []string {
	return lo.Without(c.MemberIDs, senderID)
}
