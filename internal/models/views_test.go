package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestComposePost(t *testing.T) {
	t.Parallel()

	post := Post{ID: 3, CourseID: 8, AuthorID: "u-1", Title: "How do heaps work?", VoteCount: 4}

	t.Run("resolved references", func(t *testing.T) {
		t.Parallel()
		author := &User{ID: "u-1", FirstName: strPtr("Ada"), LastName: strPtr("Lovelace")}
		course := &Course{ID: 8, UniversityID: 2, Code: "CS161", Name: "Design and Analysis of Algorithms"}

		view := ComposePost(post, author, course, intPtr(1))

		assert.Equal(t, uint(3), view.ID)
		assert.Equal(t, "Ada", *view.Author.FirstName)
		assert.Equal(t, "CS161", view.Course.Code)
		assert.Equal(t, uint(2), view.Course.UniversityID)
		require.NotNil(t, view.UserVote)
		assert.Equal(t, 1, *view.UserVote)
	})

	t.Run("placeholders for dangling references", func(t *testing.T) {
		t.Parallel()
		view := ComposePost(post, nil, nil, nil)

		assert.Equal(t, "u-1", view.Author.ID)
		assert.Nil(t, view.Author.FirstName)
		assert.Nil(t, view.Author.ProfileImageURL)
		assert.Equal(t, CourseSummary{ID: 8, Code: "Unknown", Name: "Unknown"}, view.Course)
		assert.Nil(t, view.UserVote)
	})
}

func TestPostWithAuthor_JSONOmitsMissingVote(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(ComposePost(Post{ID: 1, AuthorID: "x"}, nil, nil, nil))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.NotContains(t, decoded, "user_vote")
	assert.Equal(t, float64(1), decoded["id"])
	assert.Contains(t, decoded, "author")
	assert.Contains(t, decoded, "course")
}

func TestComposeComment(t *testing.T) {
	t.Parallel()

	view := ComposeComment(Comment{ID: 5, AuthorID: "ghost"}, nil, intPtr(-1))
	assert.Equal(t, "ghost", view.Author.ID)
	assert.Equal(t, -1, *view.UserVote)
	assert.NotNil(t, view.Replies)
}
