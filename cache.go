package newsdesk

import (
	"context"
	"sync"
	"time"
)

// PostCache is an in-memory cache of the blog list and hashtags with TTL.
// Invalidate is called after every successful insert.
type PostCache struct {
	mu       sync.RWMutex
	posts    []BlogPost
	hashtags []string
	loaded   bool
	fetched  time.Time
	ttl      time.Duration
	repo     PostRepository
}

// NewPostCache creates a PostCache backed by the given repository.
func NewPostCache(repo PostRepository, ttl time.Duration) *PostCache {
	return &PostCache{repo: repo, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.hashtags = nil
	c.loaded = false
	c.mu.Unlock()
}

// Valid reports whether the next read will be served without a reload.
func (c *PostCache) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valid()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.repo.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	hashtags, err := c.repo.ListHashtags(ctx)
	if err != nil {
		return err
	}
	c.posts = posts
	c.hashtags = hashtags
	c.loaded = true
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and hashtags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]BlogPost, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags := c.posts, c.hashtags
		c.mu.RUnlock()
		return posts, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.hashtags, nil
}

// ListPosts returns posts newest first, optionally filtered by category.
func (c *PostCache) ListPosts(ctx context.Context, category string) ([]BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return posts, nil
	}
	var filtered []BlogPost
	for _, p := range posts {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// ListPostsByHashtag returns posts carrying tag, compared case-insensitively.
func (c *PostCache) ListPostsByHashtag(ctx context.Context, tag string) ([]BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	want := normalizeTag(tag)
	var filtered []BlogPost
	for _, p := range posts {
		for _, t := range p.Hashtags {
			if normalizeTag(t) == want {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListHashtags returns all unique hashtags.
func (c *PostCache) ListHashtags(ctx context.Context) ([]string, error) {
	_, tags, err := c.ensureLoaded(ctx)
	return tags, err
}

// GetPost returns a single post by id from the cache.
func (c *PostCache) GetPost(ctx context.Context, id string) (BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range posts {
		if p.ID == id {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}
