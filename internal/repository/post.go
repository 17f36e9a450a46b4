package repository

import (
	"context"
	"errors"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/models"
	"studyoverflow/internal/observability"

	"gorm.io/gorm"
)

// PostFilter narrows and orders a post listing.
type PostFilter struct {
	CourseIDs []uint
	// Restrict is set when CourseIDs must be applied even if empty.
	Restrict bool
	Sort     string
	Limit    int
	Offset   int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]models.Post, error)
}

type postRepository struct {
	db      *gorm.DB
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:      db,
		logger:  observability.NewRepoLogger("posts"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]interface{}{"post_id": post.ID, "course_id": post.CourseID})
	return nil
}

// GetByID reads through the post cache. Writers that touch a post's
// aggregates invalidate its entry.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer r.metrics.TrackQuery("get_by_id", "posts")()

	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	posts := []models.Post{}
	if filter.Restrict && len(filter.CourseIDs) == 0 {
		return posts, nil
	}
	defer r.metrics.TrackQuery("list", "posts")()

	q := r.db.WithContext(ctx).Model(&models.Post{})
	if len(filter.CourseIDs) > 0 {
		q = q.Where("course_id IN ?", filter.CourseIDs)
	}
	err := applySort(q, filter.Sort).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	return posts, err
}

// applySort appends the ORDER BY clause for the requested sort type.
func applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case models.SortNew:
		return db.Order("created_at DESC").Order("id DESC")
	default: // "hot" and anything unrecognized
		return db.Order("vote_count DESC").Order("created_at DESC")
	}
}
