package service

import (
	"context"
	"errors"
	"strings"

	"studyoverflow/internal/models"
	"studyoverflow/internal/repository"
	"studyoverflow/internal/validation"

	"github.com/samber/lo"
)

type PostService struct {
	postRepo    repository.PostRepository
	catalogRepo repository.CatalogRepository
	views       *ViewComposer
}

type CreatePostInput struct {
	UserID   string
	CourseID uint   `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required,trimmedmin=5,max=200"`
	Content  string `json:"content" validate:"required,trimmedmin=20,max=10000"`
}

type ListPostsInput struct {
	ViewerID     string
	CourseID     *uint
	UniversityID *uint
	Sort         string `json:"sort" validate:"omitempty,oneof=hot new"`
	Limit        int
	Offset       int
}

func NewPostService(
	postRepo repository.PostRepository,
	catalogRepo repository.CatalogRepository,
	views *ViewComposer,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		catalogRepo: catalogRepo,
		views:       views,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == "" {
		return nil, models.NewUnauthorizedError("Authentication required to post")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.catalogRepo.GetCourse(ctx, in.CourseID); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return nil, models.NewValidationError("Course does not exist")
		}
		return nil, err
	}

	post := &models.Post{
		CourseID: in.CourseID,
		AuthorID: in.UserID,
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.PostWithAuthor, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	filter := repository.PostFilter{
		Sort:   in.Sort,
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if filter.Sort == "" {
		filter.Sort = models.SortHot
	}
	if in.CourseID != nil {
		filter.CourseIDs = []uint{*in.CourseID}
		filter.Restrict = true
	}
	if in.UniversityID != nil {
		ids, err := s.catalogRepo.CourseIDsForUniversity(ctx, *in.UniversityID)
		if err != nil {
			return nil, err
		}
		if filter.Restrict {
			ids = lo.Intersect(ids, filter.CourseIDs)
		}
		filter.CourseIDs = ids
		filter.Restrict = true
	}

	posts, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views.Posts(ctx, posts, in.ViewerID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID string) (*models.PostWithAuthor, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.views.Post(ctx, *post, viewerID)
}
