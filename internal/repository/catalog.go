package repository

import (
	"context"
	"errors"

	"studyoverflow/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository reads universities and courses.
type CatalogRepository interface {
	ListUniversities(ctx context.Context) ([]models.University, error)
	GetUniversity(ctx context.Context, id uint) (*models.University, error)
	ListCourses(ctx context.Context, universityID *uint) ([]models.Course, error)
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	FindCoursesByIDs(ctx context.Context, ids []uint) ([]models.Course, error)
	CourseIDsForUniversity(ctx context.Context, universityID uint) ([]uint, error)
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListUniversities(ctx context.Context) ([]models.University, error) {
	universities := []models.University{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&universities).Error
	return universities, err
}

func (r *catalogRepository) GetUniversity(ctx context.Context, id uint) (*models.University, error) {
	var university models.University
	if err := r.db.WithContext(ctx).First(&university, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("University", id)
		}
		return nil, err
	}
	return &university, nil
}

func (r *catalogRepository) ListCourses(ctx context.Context, universityID *uint) ([]models.Course, error) {
	courses := []models.Course{}
	q := r.db.WithContext(ctx).Order("code ASC")
	if universityID != nil {
		q = q.Where("university_id = ?", *universityID)
	}
	err := q.Find(&courses).Error
	return courses, err
}

func (r *catalogRepository) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("University").First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Course", id)
		}
		return nil, err
	}
	return &course, nil
}

func (r *catalogRepository) FindCoursesByIDs(ctx context.Context, ids []uint) ([]models.Course, error) {
	courses := []models.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *catalogRepository) CourseIDsForUniversity(ctx context.Context, universityID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("university_id = ?", universityID).
		Pluck("id", &ids).Error
	return ids, err
}
