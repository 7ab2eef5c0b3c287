package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
)

// Home lists posts with category and hashtag filters.
func Home(p newsdesk.HomePage) templ.Component {
	return Layout(p.Layout, component(func(h *writer) {
		h.raw(`<section class="filters"><div class="pills">`)
		pill(h, "Sve", HomeHref("", ""), p.Category == "" && p.Tag == "")
		for _, cat := range p.Categories {
			pill(h, cat, HomeHref(cat, ""), cat == p.Category)
		}
		h.raw(`</div>`)
		if len(p.Hashtags) > 0 {
			h.raw(`<div class="pills tags">`)
			for _, tag := range p.Hashtags {
				pill(h, "#"+tag, HomeHref("", tag), tag == p.Tag)
			}
			h.raw(`</div>`)
		}
		h.raw(`</section>`)

		if len(p.Posts) == 0 {
			h.raw(`<p class="empty">Još nema objava.</p>`)
			return
		}
		h.raw(`<section class="cards">`)
		for _, post := range p.Posts {
			card(h, post)
		}
		h.raw(`</section>`)
	}))
}

func pill(h *writer, label, href string, active bool) {
	h.raw(`<a`)
	h.classes("pill", templ.KV("active", active))
	h.href("href", href)
	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

func card(h *writer, post newsdesk.BlogPost) {
	h.raw(`<article class="card"><a`)
	h.href("href", post.Link())
	h.raw(`>`)
	if post.ImageURL != "" {
		h.raw(`<img loading="lazy"`)
		h.href("src", post.ImageURL)
		h.attr("alt", post.ImageAlt)
		h.raw(`/>`)
	}
	h.raw(`<h2>`)
	h.text(post.Title)
	h.raw(`</h2></a><p class="meta">`)
	if post.Category != "" {
		h.raw(`<span class="category">`)
		h.text(post.Category)
		h.raw(`</span> · `)
	}
	h.raw(`<time`)
	h.attr("datetime", post.CreatedAt.UTC().Format("2006-01-02"))
	h.raw(`>`)
	h.text(FormatDate(post.CreatedAt))
	h.raw(`</time></p><p>`)
	h.text(newsdesk.PostSummary(post))
	h.raw(`</p></article>`)
}
