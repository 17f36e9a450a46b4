package service

import (
	"context"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/models"
	"studyoverflow/internal/repository"
)

// CatalogService serves the read-only university and course catalogue.
type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListUniversities(ctx context.Context) ([]models.University, error) {
	var universities []models.University
	err := cache.Aside(ctx, cache.UniversitiesKey, &universities, cache.CatalogTTL, func() error {
		var err error
		universities, err = s.repo.ListUniversities(ctx)
		return err
	})
	return universities, err
}

func (s *CatalogService) GetUniversity(ctx context.Context, id uint) (*models.University, error) {
	return s.repo.GetUniversity(ctx, id)
}

func (s *CatalogService) ListCourses(ctx context.Context, universityID *uint) ([]models.Course, error) {
	return s.repo.ListCourses(ctx, universityID)
}

func (s *CatalogService) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	return s.repo.GetCourse(ctx, id)
}
