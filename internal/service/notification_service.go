package service

import (
	"context"
	"fmt"
	"log/slog"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/featureflags"
	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"
	"studyoverflow/internal/repository"
)

const replyPreviewRunes = 120

// NotificationService writes user notifications and serves a user's inbox.
// Writes are best effort: a failure is logged and never fails the action that
// triggered it.
type NotificationService struct {
	repo  repository.NotificationRepository
	flags *featureflags.Manager
}

func NewNotificationService(repo repository.NotificationRepository, flags *featureflags.Manager) *NotificationService {
	return &NotificationService{repo: repo, flags: flags}
}

// NotifyReply tells the post author about a new comment on their question.
func (s *NotificationService) NotifyReply(ctx context.Context, post *models.Post, comment *models.Comment) {
	if post == nil || comment == nil || post.AuthorID == comment.AuthorID {
		return
	}
	s.send(ctx, &models.Notification{
		UserID: post.AuthorID,
		Title:  "New reply to your question",
		Body:   truncateRunes(comment.Content, replyPreviewRunes),
		Link:   postLink(post.ID),
		Type:   models.NotificationTypeComment,
	})
}

// NotifyAccepted tells the comment author their answer was accepted by acceptedBy.
func (s *NotificationService) NotifyAccepted(ctx context.Context, comment *models.Comment, acceptedBy string) {
	if comment == nil || comment.AuthorID == acceptedBy {
		return
	}
	s.send(ctx, &models.Notification{
		UserID: comment.AuthorID,
		Title:  "Your answer was accepted",
		Body:   "Congrats! Your answer was marked as the solution.",
		Link:   postLink(comment.PostID),
		Type:   models.NotificationTypeAnswer,
	})
}

// NotifyChatMessage tells every other chat member about msg.
func (s *NotificationService) NotifyChatMessage(ctx context.Context, chat *models.Chat, msg *models.ChatMessage) {
	if chat == nil || msg == nil {
		return
	}
	title := "New message"
	if chat.IsGroup && chat.Name != "" {
		title = chat.Name
	}
	body := truncateRunes(msg.Content, replyPreviewRunes)
	for _, userID := range chat.Recipients(msg.SenderID) {
		s.send(ctx, &models.Notification{
			UserID: userID,
			Title:  title,
			Body:   body,
			Type:   models.NotificationTypeChat,
		})
	}
}

func (s *NotificationService) send(ctx context.Context, n *models.Notification) {
	if !s.flags.Enabled(featureflags.Notifications, n.UserID) {
		return
	}
	if err := s.repo.Create(ctx, n); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to write notification",
			slog.String("type", n.Type),
			slog.String("user_id", n.UserID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	if userID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return s.repo.ListForUser(ctx, userID, limit, offset)
}

// UnreadCount is served from the cache; writers invalidate it.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	var count int64
	err := cache.Aside(ctx, cache.UnreadNotificationsKey(userID), &count, cache.UnreadTTL, func() error {
		var err error
		count, err = s.repo.CountUnread(ctx, userID)
		return err
	})
	return count, err
}

// MarkRead marks ids as read, or every unread notification when ids is empty.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []uint) (int64, error) {
	if userID == "" {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	return s.repo.MarkRead(ctx, userID, ids)
}

func postLink(postID uint) *string {
	link := fmt.Sprintf("/post/%d", postID)
	return &link
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
