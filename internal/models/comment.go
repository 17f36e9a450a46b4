package models

import (
	"time"
)

// Comment is an answer to a post or a reply to another comment of the same post.
// ParentID is fixed at creation; nil means top level.
type Comment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PostID           uint      `gorm:"not null;index" json:"post_id"`
	ParentID         *uint     `gorm:"index" json:"parent_id"`
	AuthorID         string    `gorm:"size:255;not null;index" json:"author_id"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	VoteCount        int       `gorm:"not null;default:0" json:"vote_count"`
	IsAcceptedAnswer bool      `gorm:"not null;default:false" json:"is_accepted_answer"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
