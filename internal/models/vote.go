package models

import "time"

// SubjectKind names what a vote is cast on.
type SubjectKind string

const (
	SubjectPost    SubjectKind = "post"
	SubjectComment SubjectKind = "comment"
)

// Valid reports whether k is a votable kind.
func (k SubjectKind) Valid() bool {
	return k == SubjectPost || k == SubjectComment
}

// Label is the human-readable resource name used in error messages.
func (k SubjectKind) Label() string {
	switch k {
	case SubjectPost:
		return "Post"
	case SubjectComment:
		return "Comment"
	default:
		return string(k)
	}
}

// Table returns the table holding subjects of this kind.
func (k SubjectKind) Table() string {
	if k == SubjectComment {
		return "comments"
	}
	return "posts"
}

// VoteTable returns the table holding vote rows for this kind.
func (k SubjectKind) VoteTable() string {
	if k == SubjectComment {
		return "comment_votes"
	}
	return "post_votes"
}

// SubjectColumn returns the vote table column referencing the subject.
func (k SubjectKind) SubjectColumn() string {
	if k == SubjectComment {
		return "comment_id"
	}
	return "post_id"
}

// PostVote records one user's vote on a post. Absence of a row means no vote.
type PostVote struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	UserID    string    `gorm:"primaryKey;size:255" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentVote records one user's vote on a comment.
type CommentVote struct {
	CommentID uint      `gorm:"primaryKey;autoIncrement:false" json:"comment_id"`
	UserID    string    `gorm:"primaryKey;size:255" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoteAction is the storage mutation a vote toggle resolves to.
type VoteAction string

const (
	VoteInserted VoteAction = "inserted"
	VoteRemoved  VoteAction = "removed"
	VoteFlipped  VoteAction = "flipped"
)

// VoteDecision is the outcome of applying a requested vote to the existing one.
type VoteDecision struct {
	Action VoteAction
	// Delta is added to the subject's cached vote count.
	Delta int
	// UserVote is the caller's vote after the change; nil once removed.
	UserVote *int
}

// VoteResult is returned to clients after a vote toggle.
type VoteResult struct {
	VoteCount int  `json:"vote_count"`
	UserVote  *int `json:"user_vote"`
}

// ValidateVoteValue accepts exactly +1 or -1.
func ValidateVoteValue(value int) error {
	if value != 1 && value != -1 {
		return NewInvalidVoteValueError(value)
	}
	return nil
}

// DecideVote resolves a toggle: no vote inserts, the same vote again removes it
// and the opposite vote flips it.
func DecideVote(existing *int, value int) VoteDecision {
	switch {
	case existing == nil:
		v := value
		return VoteDecision{Action: VoteInserted, Delta: value, UserVote: &v}
	case *existing == value:
		return VoteDecision{Action: VoteRemoved, Delta: -value}
	default:
		v := value
		return VoteDecision{Action: VoteFlipped, Delta: 2 * value, UserVote: &v}
	}
}
