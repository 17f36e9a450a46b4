package server

import (
	"fmt"
	"net/http"
	"testing"

	"studyoverflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications_ReplyAndAccept(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	_, post := env.seedQuestion(t)

	answer := createComment(t, env, post.ID, "helper", "Draw the recursion tree first.", nil)
	createComment(t, env, post.ID, "asker", "Thanks, that helped!", &answer.ID)

	resp := env.do(t, http.MethodGet, "/api/notifications", nil, "asker")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	inbox := decode[[]models.Notification](t, resp)
	require.Len(t, inbox, 1, "own replies do not notify")
	assert.Equal(t, "New reply to your question", inbox[0].Title)
	assert.Equal(t, "Draw the recursion tree first.", inbox[0].Body)
	assert.Equal(t, models.NotificationTypeComment, inbox[0].Type)
	require.NotNil(t, inbox[0].Link)
	assert.Equal(t, fmt.Sprintf("/post/%d", post.ID), *inbox[0].Link)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/comments/%d/accept", answer.ID), nil, "asker")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/notifications", nil, "helper")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	helperInbox := decode[[]models.Notification](t, resp)
	require.Len(t, helperInbox, 1)
	assert.Equal(t, models.NotificationTypeAnswer, helperInbox[0].Type)
	assert.Equal(t, "Your answer was accepted", helperInbox[0].Title)
}

func TestNotifications_UnreadAndMarkRead(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	_, post := env.seedQuestion(t)

	createComment(t, env, post.ID, "helper", "First idea", nil)
	createComment(t, env, post.ID, "helper", "Second idea", nil)

	unread := func() float64 {
		resp := env.do(t, http.MethodGet, "/api/notifications/unread-count", nil, "asker")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[map[string]any](t, resp)["count"].(float64)
	}
	assert.Equal(t, float64(2), unread())

	resp := env.do(t, http.MethodGet, "/api/notifications", nil, "asker")
	inbox := decode[[]models.Notification](t, resp)
	require.Len(t, inbox, 2)

	resp = env.do(t, http.MethodPost, "/api/notifications/read", map[string][]uint{"ids": {inbox[0].ID}}, "asker")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode[map[string]any](t, resp)["updated"])
	assert.Equal(t, float64(1), unread())

	// Marking someone else's notification changes nothing.
	resp = env.do(t, http.MethodPost, "/api/notifications/read", map[string][]uint{"ids": {inbox[1].ID}}, "helper")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), decode[map[string]any](t, resp)["updated"])

	resp = env.do(t, http.MethodPost, "/api/notifications/read", nil, "asker")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), unread())
}

func TestNotifications_RequireAuth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, path := range []string{"/api/notifications", "/api/notifications/unread-count"} {
		assertErrorCode(t, env.do(t, http.MethodGet, path, nil, ""), http.StatusUnauthorized, "UNAUTHORIZED")
	}
	assertErrorCode(t, env.do(t, http.MethodPost, "/api/notifications/read", nil, ""), http.StatusUnauthorized, "UNAUTHORIZED")
}
