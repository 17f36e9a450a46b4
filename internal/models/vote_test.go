package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidateVoteValue(t *testing.T) {
	t.Parallel()

	for _, v := range []int{1, -1} {
		assert.NoError(t, ValidateVoteValue(v))
	}

	for _, v := range []int{0, 2, -2, 100} {
		err := ValidateVoteValue(v)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidVoteValue))

		var appErr *AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
}

func TestDecideVote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing *int
		value    int
		action   VoteAction
		delta    int
		userVote *int
	}{
		{"first upvote", nil, 1, VoteInserted, 1, intPtr(1)},
		{"first downvote", nil, -1, VoteInserted, -1, intPtr(-1)},
		{"repeat upvote removes", intPtr(1), 1, VoteRemoved, -1, nil},
		{"repeat downvote removes", intPtr(-1), -1, VoteRemoved, 1, nil},
		{"flip up to down", intPtr(1), -1, VoteFlipped, -2, intPtr(-1)},
		{"flip down to up", intPtr(-1), 1, VoteFlipped, 2, intPtr(1)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DecideVote(tt.existing, tt.value)
			assert.Equal(t, tt.action, got.Action)
			assert.Equal(t, tt.delta, got.Delta)
			assert.Equal(t, tt.userVote, got.UserVote)
		})
	}
}

func TestDecideVote_ToggleSequence(t *testing.T) {
	t.Parallel()

	// 0 -> +1 -> +1 -> -1 should walk the count 1, 0, -1.
	var current *int
	count := 0
	steps := []struct {
		value     int
		wantCount int
		wantVote  *int
	}{
		{1, 1, intPtr(1)},
		{1, 0, nil},
		{-1, -1, intPtr(-1)},
	}
	for _, step := range steps {
		d := DecideVote(current, step.value)
		count += d.Delta
		current = d.UserVote
		assert.Equal(t, step.wantCount, count)
		assert.Equal(t, step.wantVote, current)
	}
}

func TestSubjectKind(t *testing.T) {
	t.Parallel()

	assert.True(t, SubjectPost.Valid())
	assert.True(t, SubjectComment.Valid())
	assert.False(t, SubjectKind("user").Valid())

	assert.Equal(t, "posts", SubjectPost.Table())
	assert.Equal(t, "post_votes", SubjectPost.VoteTable())
	assert.Equal(t, "post_id", SubjectPost.SubjectColumn())
	assert.Equal(t, "comments", SubjectComment.Table())
	assert.Equal(t, "comment_votes", SubjectComment.VoteTable())
	assert.Equal(t, "comment_id", SubjectComment.SubjectColumn())
}

func TestSubjectNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewSubjectNotFoundError(SubjectComment, 7)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "Comment with ID 7")
	assert.True(t, errors.Is(err, ErrSubjectNotFound))
}
