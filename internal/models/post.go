// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post is a question asked in the context of a course.
// VoteCount and CommentCount are denormalized aggregates: VoteCount always equals the
// sum of the post's PostVote values and CommentCount the number of its comments.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CourseID     uint      `gorm:"not null;index" json:"course_id"`
	AuthorID     string    `gorm:"size:255;not null;index" json:"author_id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	VoteCount    int       `gorm:"not null;default:0;index" json:"vote_count"`
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	IsAnswered   bool      `gorm:"not null;default:false" json:"is_answered"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Post list orderings.
const (
	SortHot = "hot"
	SortNew = "new"
)
