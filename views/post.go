package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
	"github.com/eringen/newsdesk/richtext"
)

// Post renders a single blog post. The stored editor HTML is sanitized on
// the way out.
func Post(p newsdesk.PostPage) templ.Component {
	return Layout(p.Layout, component(func(h *writer) {
		if p.JSONLD != "" {
			h.raw(`<script type="application/ld+json">`, p.JSONLD, `</script>`)
		}
		post := p.Post
		h.raw(`<article class="post"><header><h1>`)
		h.text(post.Title)
		h.raw(`</h1><p class="meta">`)
		if post.Author != "" {
			h.text(post.Author)
			h.raw(` · `)
		}
		h.raw(`<time`)
		h.attr("datetime", post.CreatedAt.UTC().Format("2006-01-02"))
		h.raw(`>`)
		h.text(FormatDate(post.CreatedAt))
		h.raw(`</time>`)
		if post.Category != "" {
			h.raw(` · <a class="category"`)
			h.href("href", HomeHref(post.Category, ""))
			h.raw(`>`)
			h.text(post.Category)
			h.raw(`</a>`)
		}
		h.raw(`</p>`)
		if post.Description != "" {
			h.raw(`<p class="lead">`)
			h.text(post.Description)
			h.raw(`</p>`)
		}
		h.raw(`</header>`)
		if post.ImageURL != "" {
			h.raw(`<img class="featured"`)
			h.href("src", post.ImageURL)
			h.attr("alt", post.ImageAlt)
			h.raw(`/>`)
		}
		h.raw(`<div class="content">`)
		h.component(templ.Raw(richtext.Sanitize(post.Content)))
		h.raw(`</div>`)

		if tags := tagsOf(post.Hashtags); len(tags) > 0 {
			h.raw(`<p class="pills tags">`)
			for _, tag := range tags {
				pill(h, "#"+tag, HomeHref("", tag), false)
			}
			h.raw(`</p>`)
		}
		h.raw(`</article>`)

		if len(p.Related) > 0 {
			h.raw(`<aside class="related"><h2>Povezane objave</h2><section class="cards">`)
			for _, r := range p.Related {
				card(h, r)
			}
			h.raw(`</section></aside>`)
		}
	}))
}

// NavPage renders a static page body inside the layout.
func NavPage(p newsdesk.NavPageView) templ.Component {
	return Layout(p.Layout, component(func(h *writer) {
		h.raw(`<article class="page">`)
		h.component(p.Body)
		h.raw(`</article>`)
	}))
}
