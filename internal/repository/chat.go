package repository

import (
	"context"
	"errors"
	"time"

	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatRepository stores chats, their members and messages.
type ChatRepository interface {
	// Create inserts chat and its members in one transaction.
	Create(ctx context.Context, chat *models.Chat, memberIDs []string) error
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	// ListForUser returns the chats userID belongs to, most recently active first.
	ListForUser(ctx context.Context, userID string) ([]models.Chat, error)
	// AddMessage inserts msg and moves the chat's last-message preview.
	AddMessage(ctx context.Context, msg *models.ChatMessage) error
	// ListMessages pages backwards from the newest message and returns the page oldest first.
	ListMessages(ctx context.Context, chatID uint, limit, offset int) ([]models.ChatMessage, error)
}

type chatRepository struct {
	db     *gorm.DB
	logger *observability.RepoLogger
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db, logger: observability.NewRepoLogger("chats")}
}

func (r *chatRepository) Create(ctx context.Context, chat *models.Chat, memberIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(chat).Error; err != nil {
			return err
		}
		members := lo.Map(lo.Uniq(memberIDs), func(id string, _ int) models.ChatMember {
			return models.ChatMember{ChatID: chat.ID, UserID: id}
		})
		if len(members) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error
	})
	if err != nil {
		return err
	}
	chat.MemberIDs = lo.Uniq(memberIDs)
	r.logger.LogCreate(ctx, map[string]interface{}{
		"chat_id":  chat.ID,
		"is_group": chat.IsGroup,
		"members":  len(chat.MemberIDs),
	})
	return nil
}

func (r *chatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC, user_id ASC") }).
		First(&chat, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Chat", id)
		}
		return nil, err
	}
	chat.SyncMemberIDs()
	return &chat, nil
}

func (r *chatRepository) ListForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	chats := []models.Chat{}
	memberOf := r.db.Model(&models.ChatMember{}).Select("chat_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC, user_id ASC") }).
		Where("id IN (?)", memberOf).
		Order("COALESCE(last_message_at, created_at) DESC").
		Order("id DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	for i := range chats {
		chats[i].SyncMemberIDs()
	}
	return chats, nil
}

func (r *chatRepository) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Chat{}).
			Where("id = ?", msg.ChatID).
			Updates(map[string]interface{}{
				"last_message":    msg.Content,
				"last_message_at": msg.CreatedAt,
				"updated_at":      time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Chat", msg.ChatID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.logger.LogCreate(ctx, map[string]interface{}{"chat_id": msg.ChatID, "message_id": msg.ID})
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID uint, limit, offset int) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return lo.Reverse(messages), nil
}
