package newsdesk

import (
	"encoding/json"
	"net/url"
	"path"
	"time"

	"github.com/eringen/newsdesk/richtext"
)

// BuildURL joins a base URL with path segments. The root is returned with a
// trailing slash, other paths without.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(append([]string{"/", u.Path}, pathSegments...)...)
	return u.String()
}

// RelatedPosts returns up to limit posts sharing a hashtag with current,
// followed by posts from the same category. Order within each group is kept.
func RelatedPosts(current BlogPost, posts []BlogPost, limit int) []BlogPost {
	tagSet := make(map[string]struct{})
	for _, t := range current.Hashtags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var byTag, byCategory []BlogPost
	for _, p := range posts {
		if p.ID == current.ID {
			continue
		}
		if sharesTag(p, tagSet) {
			byTag = append(byTag, p)
		} else if current.Category != "" && p.Category == current.Category {
			byCategory = append(byCategory, p)
		}
	}
	related := append(byTag, byCategory...)
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

func sharesTag(p BlogPost, set map[string]struct{}) bool {
	for _, t := range p.Hashtags {
		if _, ok := set[normalizeTag(t)]; ok {
			return true
		}
	}
	return false
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema.
func WebsiteJSONLD(site SiteInfo) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      BuildURL(site.URL),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	return marshalJSONLD(data)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(post BlogPost, site SiteInfo) string {
	postURL := BuildURL(site.URL, "blogs", post.ID)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.CreatedAt.UTC().Format(time.RFC3339),
		"url":           postURL,
		"author": map[string]string{
			"@type": "Person",
			"name":  post.Author,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.ImageURL != "" {
		data["image"] = post.ImageURL
	}
	if post.Category != "" {
		data["articleSection"] = post.Category
	}
	if tags := nonEmpty(post.Hashtags); len(tags) > 0 {
		data["keywords"] = JoinHashtags(tags)
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func nonEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// PostSummary is the description of p, or an excerpt of its content when the
// description is empty.
func PostSummary(p BlogPost) string {
	if p.Description != "" {
		return p.Description
	}
	return richtext.Excerpt(p.Content, 200)
}
