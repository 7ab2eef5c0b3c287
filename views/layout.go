package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
)

// Layout wraps body in the site shell: head metadata, navigation, toasts
// and footer.
func Layout(l newsdesk.Layout, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return shell(l).Render(templ.WithChildren(ctx, body), w)
	})
}

func shell(l newsdesk.Layout) templ.Component {
	return component(func(h *writer) {
		h.raw(`<!DOCTYPE html><html lang="hr"><head><meta charset="utf-8"/>`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		h.raw(`<title>`)
		h.text(l.Meta.Title)
		h.raw(`</title>`)
		h.raw(`<meta name="description"`)
		h.attr("content", l.Meta.Description)
		h.raw(`/><link rel="canonical"`)
		h.href("href", l.Meta.URL)
		h.raw(`/><meta property="og:title"`)
		h.attr("content", l.Meta.Title)
		h.raw(`/><meta property="og:description"`)
		h.attr("content", l.Meta.Description)
		h.raw(`/><meta property="og:type"`)
		h.attr("content", l.Meta.OGType)
		h.raw(`/><meta property="og:url"`)
		h.href("content", l.Meta.URL)
		h.raw(`/>`)
		if l.Meta.Image != "" {
			h.raw(`<meta property="og:image"`)
			h.href("content", l.Meta.Image)
			h.raw(`/>`)
		}
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", l.Site.Name)
		h.raw(`/><link rel="stylesheet" href="/public/style.css"/>`)
		h.raw(`<script type="application/ld+json">`, newsdesk.WebsiteJSONLD(l.Site), `</script>`)
		h.raw(`</head><body>`)

		header(h, l)
		h.raw(`<main>`)
		toasts(h, l.Toasts)
		h.yield()
		h.raw(`</main><footer class="site">`)
		h.text(l.Site.Name)
		h.raw(` · <a href="/feed.xml">RSS</a></footer></body></html>`)
	})
}

func header(h *writer, l newsdesk.Layout) {
	h.raw(`<header class="site"><a class="brand" href="/">`)
	h.text(l.Site.Name)
	h.raw(`</a><nav>`)
	for _, p := range l.Nav {
		h.raw(`<a`)
		h.href("href", "/"+p.Slug)
		h.raw(`>`)
		h.text(p.Title)
		h.raw(`</a> `)
	}
	h.raw(`</nav>`)
	if l.User != nil {
		h.raw(`<a href="/dashboard">`)
		h.text(l.User.DisplayName())
		h.raw(`</a><form method="post" action="/logout"><input type="hidden" name="_csrf"`)
		h.attr("value", l.CSRF)
		h.raw(`/><button type="submit">Odjava</button></form>`)
	} else {
		h.raw(`<a href="/login">Prijava</a>`)
	}
	h.raw(`</header>`)
}

func toasts(h *writer, ts []newsdesk.Toast) {
	for _, t := range ts {
		h.raw(`<div role="status"`)
		h.classes("toast", t.Kind)
		h.raw(`>`)
		h.text(t.Message)
		h.raw(`</div>`)
	}
}

// NotFound is the 404 page.
func NotFound(l newsdesk.Layout) templ.Component {
	return Layout(l, component(func(h *writer) {
		h.raw(`<h1>Stranica nije pronađena</h1><p>Tražena stranica ne postoji. <a href="/">Natrag na naslovnicu</a></p>`)
	}))
}

// ServerError is the 500 page.
func ServerError(l newsdesk.Layout) templ.Component {
	return Layout(l, component(func(h *writer) {
		h.raw(`<h1>Greška</h1><p>Nešto je pošlo po zlu. Pokušajte ponovno za nekoliko trenutaka.</p>`)
	}))
}
