package server

import (
	"fmt"
	"net/http"
	"testing"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: swaps the package-level cache client.
func TestPostCache_InvalidatedByWrites(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	prev := cache.GetClient()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(prev)
		_ = rdb.Close()
		mr.Close()
	})

	env := newTestEnv(t)
	_, post := env.seedQuestion(t)
	path := fmt.Sprintf("/api/posts/%d", post.ID)
	key := cache.PostKey(post.ID)

	get := func() models.PostWithAuthor {
		resp := env.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[models.PostWithAuthor](t, resp)
	}

	assert.Equal(t, 0, get().VoteCount)
	assert.True(t, mr.Exists(key))

	resp := env.do(t, http.MethodPost, path+"/vote", map[string]int{"value": 1}, "helper")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, mr.Exists(key), "vote invalidates the cached post")
	assert.Equal(t, 1, get().VoteCount)

	c := createComment(t, env, post.ID, "helper", "Cached answers go stale", nil)
	assert.False(t, mr.Exists(key))
	assert.Equal(t, 1, get().CommentCount)

	resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/comments/%d/accept", c.ID), nil, "asker")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, get().IsAnswered)

	resp = env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
