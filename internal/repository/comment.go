package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	// Create inserts the comment and bumps the post's comment count atomically.
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	// AcceptAnswer makes commentID the single accepted answer of postID and marks the post answered.
	AcceptAnswer(ctx context.Context, commentID, postID uint) error
}

type commentRepository struct {
	db     *gorm.DB
	logger *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, logger: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postCount int64
		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).Count(&postCount).Error; err != nil {
			return err
		}
		if postCount == 0 {
			return models.NewNotFoundError("Post", comment.PostID)
		}

		if comment.ParentID != nil {
			var parent models.Comment
			err := tx.Select("id", "post_id").Where("id = ?", *comment.ParentID).Take(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError(fmt.Sprintf("parent comment %d does not exist", *comment.ParentID))
			}
			if err != nil {
				return err
			}
			if parent.PostID != comment.PostID {
				return models.NewValidationError("parent comment belongs to a different post")
			}
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			Updates(map[string]interface{}{
				"comment_count": gorm.Expr("comment_count + ?", 1),
				"updated_at":    time.Now(),
			}).Error
	})
	if err != nil {
		return err
	}

	level := "answer"
	if comment.ParentID != nil {
		level = "reply"
	}
	observability.CommentsCreated.WithLabelValues(level).Inc()
	r.logger.LogCreate(ctx, map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
		"reply":      comment.ParentID != nil,
	})
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewCommentNotFoundError(id)
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns every comment of the post in creation order; display
// ordering is applied when the tree is built.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// AcceptAnswer is retried on deadlocks: concurrent accepts on one post clear the
// same rows in different orders.
func (r *commentRepository) AcceptAnswer(ctx context.Context, commentID, postID uint) error {
	err := withTxRetry(ctx, func() error {
		return r.acceptAnswerTx(ctx, commentID, postID)
	}, func(int) {
		observability.AcceptRetries.Inc()
	})
	if err != nil {
		return err
	}

	observability.AnswersAccepted.Inc()
	r.logger.LogUpdate(ctx, map[string]interface{}{
		"comment_id": commentID,
		"post_id":    postID,
		"accepted":   true,
	})
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *commentRepository) acceptAnswerTx(ctx context.Context, commentID, postID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", postID).
			Updates(map[string]interface{}{"is_accepted_answer": false, "updated_at": now}).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Comment{}).
			Where("id = ? AND post_id = ?", commentID, postID).
			Updates(map[string]interface{}{"is_accepted_answer": true, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewCommentNotFoundError(commentID)
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Updates(map[string]interface{}{"is_answered": true, "updated_at": now}).Error
	})
}
