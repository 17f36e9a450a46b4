// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"studyoverflow/internal/database"
	"studyoverflow/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory SQLite database with the full schema.
// A single connection serializes every transaction, like the production row locks do.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// Fixture creates related rows with sensible defaults.
type Fixture struct {
	t  testing.TB
	db *gorm.DB
}

// NewFixture returns a Fixture writing to db.
func NewFixture(t testing.TB, db *gorm.DB) *Fixture {
	return &Fixture{t: t, db: db}
}

// University inserts a university.
func (f *Fixture) University(name string) *models.University {
	f.t.Helper()
	u := &models.University{Name: name, ShortName: name}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

// Course inserts a course under universityID.
func (f *Fixture) Course(universityID uint, code string) *models.Course {
	f.t.Helper()
	c := &models.Course{UniversityID: universityID, Code: code, Name: code + " course"}
	require.NoError(f.t, f.db.Create(c).Error)
	return c
}

// User inserts a profile with the given ID and first name.
func (f *Fixture) User(id, firstName string) *models.User {
	f.t.Helper()
	u := &models.User{ID: id, FirstName: &firstName}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

// Post inserts a post by authorID in courseID.
func (f *Fixture) Post(courseID uint, authorID string) *models.Post {
	f.t.Helper()
	p := &models.Post{
		CourseID: courseID,
		AuthorID: authorID,
		Title:    "How does amortized analysis work?",
		Content:  "I keep getting confused by the potential method in lecture 7.",
	}
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}

// Comment inserts a comment directly, bypassing the comment counter.
func (f *Fixture) Comment(postID uint, parentID *uint, authorID string, createdAt time.Time) *models.Comment {
	f.t.Helper()
	c := &models.Comment{
		PostID:    postID,
		ParentID:  parentID,
		AuthorID:  authorID,
		Content:   "Think of the potential as prepaid work.",
		CreatedAt: createdAt,
	}
	require.NoError(f.t, f.db.Create(c).Error)
	return c
}
