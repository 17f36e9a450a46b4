package models

// Placeholder values used when a post references a course that no longer resolves.
const UnknownCourseLabel = "Unknown"

// AuthorProfile is the public slice of a User attached to posts and comments.
type AuthorProfile struct {
	ID              string  `json:"id"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// NewAuthorProfile projects u, or returns the placeholder for id when u is nil.
func NewAuthorProfile(id string, u *User) AuthorProfile {
	if u == nil {
		return AuthorProfile{ID: id}
	}
	return AuthorProfile{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// CourseSummary is the course reference embedded in a post view.
type CourseSummary struct {
	ID           uint   `json:"id"`
	UniversityID uint   `json:"university_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
}

// NewCourseSummary projects c, or returns the "Unknown" placeholder for id when c is nil.
func NewCourseSummary(id uint, c *Course) CourseSummary {
	if c == nil {
		return CourseSummary{ID: id, Code: UnknownCourseLabel, Name: UnknownCourseLabel}
	}
	return CourseSummary{
		ID:           c.ID,
		UniversityID: c.UniversityID,
		Code:         c.Code,
		Name:         c.Name,
	}
}

// PostWithAuthor is the read view of a post.
type PostWithAuthor struct {
	Post
	Author   AuthorProfile `json:"author"`
	Course   CourseSummary `json:"course"`
	UserVote *int          `json:"user_vote,omitempty"`
}

// CommentWithAuthor is the read view of a comment and, once placed in a tree, its replies.
type CommentWithAuthor struct {
	Comment
	Author   AuthorProfile        `json:"author"`
	UserVote *int                 `json:"user_vote,omitempty"`
	Depth    int                  `json:"depth"`
	Replies  []*CommentWithAuthor `json:"replies"`
}

// ComposePost joins a post with its author, course and the viewer's vote.
// Missing author or course yield placeholders rather than errors.
func ComposePost(post Post, author *User, course *Course, viewerVote *int) PostWithAuthor {
	return PostWithAuthor{
		Post:     post,
		Author:   NewAuthorProfile(post.AuthorID, author),
		Course:   NewCourseSummary(post.CourseID, course),
		UserVote: viewerVote,
	}
}

// ComposeComment joins a comment with its author and the viewer's vote.
func ComposeComment(comment Comment, author *User, viewerVote *int) CommentWithAuthor {
	return CommentWithAuthor{
		Comment:  comment,
		Author:   NewAuthorProfile(comment.AuthorID, author),
		UserVote: viewerVote,
		Replies:  []*CommentWithAuthor{},
	}
}
