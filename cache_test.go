package newsdesk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPosts(t *testing.T, repo *memRepo) {
	t.Helper()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, p := range []BlogPost{
		{ID: "a", Title: "A", Category: "ISHA", Hashtags: []string{"Go", "web"}},
		{ID: "b", Title: "B", Category: "Hercul", Hashtags: []string{"sport"}},
		{ID: "c", Title: "C", Category: "ISHA", Hashtags: []string{"go"}},
	} {
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := repo.InsertPost(context.Background(), p)
		require.NoError(t, err)
	}
}

func TestPostCacheServesFromMemory(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedPosts(t, repo)
	c := NewPostCache(repo, time.Hour)

	posts, err := c.ListPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "c", posts[0].ID)

	_, err = c.ListPosts(ctx, "ISHA")
	require.NoError(t, err)
	_, err = c.GetPost(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestPostCacheFilters(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedPosts(t, repo)
	c := NewPostCache(repo, time.Hour)

	isha, err := c.ListPosts(ctx, "ISHA")
	require.NoError(t, err)
	assert.Len(t, isha, 2)

	tagged, err := c.ListPostsByHashtag(ctx, "GO")
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	assert.Equal(t, "c", tagged[0].ID)
	assert.Equal(t, "a", tagged[1].ID)

	tags, err := c.ListHashtags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sport", "web"}, tags)

	_, err = c.GetPost(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	seedPosts(t, repo)
	c := NewPostCache(repo, time.Hour)

	_, err := c.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.True(t, c.Valid())

	_, err = repo.InsertPost(ctx, BlogPost{ID: "d", Title: "D", CreatedAt: time.Now()})
	require.NoError(t, err)
	c.Invalidate()
	assert.False(t, c.Valid())

	posts, err := c.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, 4)
	assert.Equal(t, "d", posts[0].ID)
	assert.Equal(t, 2, repo.listCalls)
}

func TestPostCacheExpires(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	c := NewPostCache(repo, time.Nanosecond)

	_, err := c.ListPosts(ctx, "")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	assert.False(t, c.Valid())
	_, err = c.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}
