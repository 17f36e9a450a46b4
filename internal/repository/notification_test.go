package repository

import (
	"context"
	"testing"

	"studyoverflow/internal/models"
	"studyoverflow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	t.Parallel()
	db := testutil.NewSQLiteDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{
			UserID: "asker",
			Title:  "New reply to your question",
			Body:   "Have you tried the master theorem?",
			Type:   models.NotificationTypeComment,
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Notification{UserID: "other", Title: "t", Body: "b", Type: models.NotificationTypeAnswer}))

	list, err := repo.ListForUser(ctx, "asker", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Greater(t, list[0].ID, list[2].ID, "newest first")

	unread, err := repo.CountUnread(ctx, "asker")
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	n, err := repo.MarkRead(ctx, "asker", []uint{list[0].ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.MarkRead(ctx, "asker", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	unread, err = repo.CountUnread(ctx, "asker")
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = repo.CountUnread(ctx, "other")
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread, "other users are untouched")
}
