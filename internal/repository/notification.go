package repository

import (
	"context"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"

	"gorm.io/gorm"
)

// NotificationRepository stores polled user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead marks the given notifications of userID as read, or all of them when ids is empty.
	MarkRead(ctx context.Context, userID string, ids []uint) (int64, error)
}

type notificationRepository struct {
	db     *gorm.DB
	logger *observability.RepoLogger
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db, logger: observability.NewRepoLogger("notifications")}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return err
	}
	observability.NotificationsCreated.WithLabelValues(n.Type).Inc()
	r.logger.LogCreate(ctx, map[string]interface{}{"notification_id": n.ID, "type": n.Type})
	cache.InvalidateUnread(ctx, n.UserID)
	return nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID string, ids []uint) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	res := q.Update("is_read", true)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		r.logger.LogUpdate(ctx, map[string]interface{}{"user_id": userID, "marked_read": res.RowsAffected})
		cache.InvalidateUnread(ctx, userID)
	}
	return res.RowsAffected, nil
}
