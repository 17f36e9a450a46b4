package service

import (
	"context"
	"testing"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_ListUniversitiesCached(t *testing.T) {
	mr := withCache(t)

	calls := 0
	repo := noopCatalogRepo()
	repo.listUniversitiesFn = func(_ context.Context) ([]models.University, error) {
		calls++
		return []models.University{{ID: 1, Name: "MIT", ShortName: "MIT"}}, nil
	}
	svc := NewCatalogService(repo)

	for i := 0; i < 3; i++ {
		unis, err := svc.ListUniversities(context.Background())
		require.NoError(t, err)
		require.Len(t, unis, 1)
		assert.Equal(t, "MIT", unis[0].Name)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(cache.UniversitiesKey))
}

func TestCatalogService_Delegates(t *testing.T) {
	t.Parallel()

	repo := noopCatalogRepo()
	var gotUniversity *uint
	repo.listCoursesFn = func(_ context.Context, universityID *uint) ([]models.Course, error) {
		gotUniversity = universityID
		return []models.Course{{ID: 2, Code: "CS50"}}, nil
	}
	repo.getCourseFn = func(_ context.Context, id uint) (*models.Course, error) {
		return nil, models.NewNotFoundError("Course", id)
	}
	svc := NewCatalogService(repo)

	uni := uint(4)
	courses, err := svc.ListCourses(context.Background(), &uni)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	require.NotNil(t, gotUniversity)
	assert.Equal(t, uint(4), *gotUniversity)

	_, err = svc.GetCourse(context.Background(), 9)
	assertAppError(t, err, "NOT_FOUND")
}
