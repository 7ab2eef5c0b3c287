package newsdesk

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.org", nil, "https://example.org/"},
		{"https://example.org/", []string{"blogs", "abc"}, "https://example.org/blogs/abc"},
		{"https://example.org/news", []string{"feed.xml"}, "https://example.org/news/feed.xml"},
		{"https://example.org", []string{"o-nama"}, "https://example.org/o-nama"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.base, tt.segs...))
	}
}

func TestRelatedPosts(t *testing.T) {
	current := BlogPost{ID: "cur", Category: "ISHA", Hashtags: []string{"Go"}}
	posts := []BlogPost{
		{ID: "cur", Category: "ISHA", Hashtags: []string{"go"}},
		{ID: "cat1", Category: "ISHA"},
		{ID: "tag1", Category: "Hercul", Hashtags: []string{"GO"}},
		{ID: "none", Category: "FINTUR"},
		{ID: "cat2", Category: "ISHA"},
		{ID: "tag2", Hashtags: []string{" go "}},
	}

	got := RelatedPosts(current, posts, 3)
	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"tag1", "tag2", "cat1"}, ids)

	assert.Len(t, RelatedPosts(current, posts, 10), 4)
	assert.Empty(t, RelatedPosts(BlogPost{ID: "x"}, posts, 3))
}

func TestBlogPostingJSONLD(t *testing.T) {
	post := BlogPost{
		ID:        "abc",
		Title:     "Naslov </script>",
		Author:    "Ana Horvat",
		Category:  "ISHA",
		Hashtags:  []string{"a", "", "b"},
		ImageURL:  "https://cdn.example.org/a.jpg",
		CreatedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
	}
	raw := BlogPostingJSONLD(post, SiteInfo{Name: "Newsdesk", URL: "https://example.org"})
	assert.NotContains(t, raw, "</script>")

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	assert.Equal(t, "BlogPosting", data["@type"])
	assert.Equal(t, "https://example.org/blogs/abc", data["url"])
	assert.Equal(t, "2024-02-03T04:05:06Z", data["datePublished"])
	assert.Equal(t, "a, b", data["keywords"])
	assert.Equal(t, "ISHA", data["articleSection"])
}

func TestWebsiteJSONLD(t *testing.T) {
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(WebsiteJSONLD(SiteInfo{Name: "N", URL: "https://example.org"})), &data))
	assert.Equal(t, "https://example.org/", data["url"])
	assert.NotContains(t, data, "description")
}

func TestPostSummary(t *testing.T) {
	assert.Equal(t, "opis", PostSummary(BlogPost{Description: "opis", Content: "<p>x</p>"}))
	assert.Equal(t, "Tekst posta", PostSummary(BlogPost{Content: "<p>Tekst <b>posta</b></p>"}))
}

func TestBlogPostLink(t *testing.T) {
	assert.Equal(t, "/blogs/abc", BlogPost{ID: "abc"}.Link())
}
