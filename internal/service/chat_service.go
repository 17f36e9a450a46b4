package service

import (
	"context"
	"strings"

	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"
	"studyoverflow/internal/repository"
	"studyoverflow/internal/validation"

	"github.com/samber/lo"
)

// ChatService manages polled direct and group chats. Everything about a chat
// is visible to its members only; anyone else gets the same not-found error
// as for a chat that does not exist.
type ChatService struct {
	chats    repository.ChatRepository
	views    *ViewComposer
	notifier *NotificationService
}

type CreateChatInput struct {
	UserID    string
	Name      string   `json:"name" validate:"max=100"`
	IsGroup   bool     `json:"is_group"`
	AvatarURL *string  `json:"avatar_url" validate:"omitempty,url"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1,max=50,dive,required,max=255"`
}

type SendChatMessageInput struct {
	UserID  string
	ChatID  uint
	Content string `json:"content" validate:"required,trimmedmin=1,max=10000"`
}

func NewChatService(chats repository.ChatRepository, views *ViewComposer, notifier *NotificationService) *ChatService {
	return &ChatService{chats: chats, views: views, notifier: notifier}
}

// CreateChat creates a chat with the caller and MemberIDs as members.
func (s *ChatService) CreateChat(ctx context.Context, in CreateChatInput) (*models.Chat, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required to start a chat")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if in.IsGroup && name == "" {
		return nil, models.NewValidationError("Group chats require a name")
	}

	members := lo.Uniq(append([]string{in.UserID}, in.MemberIDs...))
	if len(members) < 2 {
		return nil, models.NewValidationError("A chat needs at least one other member")
	}

	chat := &models.Chat{
		Name:      name,
		IsGroup:   in.IsGroup,
		AvatarURL: in.AvatarURL,
		CreatedBy: in.UserID,
	}
	if err := s.chats.Create(ctx, chat, members); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	if userID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return s.chats.ListForUser(ctx, userID)
}

// Messages returns a page of the chat's messages, oldest first, with senders.
func (s *ChatService) Messages(ctx context.Context, chatID uint, userID string, limit, offset int) ([]models.ChatMessage, error) {
	if userID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if _, err := s.memberChat(ctx, chatID, userID); err != nil {
		return nil, err
	}
	msgs, err := s.chats.ListMessages(ctx, chatID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.views.ChatMessages(ctx, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage posts to a chat and notifies the other members.
func (s *ChatService) SendMessage(ctx context.Context, in SendChatMessageInput) (*models.ChatMessage, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required to send messages")
	}
	chat, err := s.memberChat(ctx, in.ChatID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		ChatID:   chat.ID,
		SenderID: in.UserID,
		Content:  strings.TrimSpace(in.Content),
	}
	if err := s.chats.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	observability.ChatMessagesSent.WithLabelValues(lo.Ternary(chat.IsGroup, "group", "direct")).Inc()

	if s.notifier != nil {
		s.notifier.NotifyChatMessage(ctx, chat, msg)
	}
	return msg, nil
}

func (s *ChatService) memberChat(ctx context.Context, chatID uint, userID string) (*models.Chat, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(userID) {
		return nil, models.NewNotFoundError("Chat", chatID)
	}
	return chat, nil
}
