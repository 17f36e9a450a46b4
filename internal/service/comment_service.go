package service

import (
	"context"
	"strings"

	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"
	"studyoverflow/internal/repository"
	"studyoverflow/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	views       *ViewComposer
	notifier    *NotificationService
	log         *observability.StructuredLogger
}

type CreateCommentInput struct {
	UserID   string
	PostID   uint
	ParentID *uint  `json:"parent_id"`
	Content  string `json:"content" validate:"required,trimmedmin=1,max=10000"`
}

type AcceptAnswerInput struct {
	UserID    string
	CommentID uint
	// PostID is optional; when given it must match the comment's post.
	PostID *uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	views *ViewComposer,
	notifier *NotificationService,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		views:       views,
		notifier:    notifier,
		log:         observability.NewStructuredLogger(),
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required to comment")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		ParentID: in.ParentID,
		AuthorID: in.UserID,
		Content:  strings.TrimSpace(in.Content),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyReply(ctx, post, comment)
	}
	return comment, nil
}

// ListComments returns the post's comments as a forest of threads, annotated
// with authors and the viewer's votes.
func (s *CommentService) ListComments(ctx context.Context, postID uint, viewerID string) ([]*models.CommentWithAuthor, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	views, err := s.views.Comments(ctx, comments, viewerID)
	if err != nil {
		return nil, err
	}
	return models.BuildCommentTree(views), nil
}

// AcceptAnswer marks a comment as the post's accepted answer. Only the post
// author may accept; any previously accepted comment is un-accepted.
func (s *CommentService) AcceptAnswer(ctx context.Context, in AcceptAnswerInput) error {
	span, ctx := observability.NewSpan(ctx, "CommentService.AcceptAnswer")
	defer span.End()
	span.AddAttributes(attribute.Int64("comment.id", int64(in.CommentID)))

	if in.UserID == "" {
		return models.NewUnauthorizedError("Authentication required to accept answers")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		span.SetError(err)
		return err
	}
	if in.PostID != nil && *in.PostID != comment.PostID {
		return models.NewConflictError("Comment does not belong to this post")
	}

	post, err := s.postRepo.GetByID(ctx, comment.PostID)
	if err != nil {
		span.SetError(err)
		return err
	}
	if post.AuthorID != in.UserID {
		return models.NewUnauthorizedError("Only the post author can accept answers")
	}

	if err := s.commentRepo.AcceptAnswer(ctx, comment.ID, post.ID); err != nil {
		span.SetError(err)
		return err
	}

	s.log.LogServiceCall(ctx, "CommentService", "AcceptAnswer", map[string]interface{}{
		"post_id":    post.ID,
		"comment_id": comment.ID,
		"trace_id":   span.TraceID(),
	})

	if s.notifier != nil {
		s.notifier.NotifyAccepted(ctx, comment, in.UserID)
	}
	return nil
}
