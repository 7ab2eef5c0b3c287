// Package views holds the default page components of a newsdesk site.
package views

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/newsdesk"
)

// Default returns the component set used by cmd/newsdesk.
func Default() newsdesk.ViewFuncs {
	return newsdesk.ViewFuncs{
		Home:        Home,
		Post:        Post,
		NavPage:     NavPage,
		Login:       Login,
		SignUp:      SignUp,
		Dashboard:   Dashboard,
		NewBlog:     NewBlog,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

// writer accumulates the first write error so components read top to bottom.
type writer struct {
	ctx      context.Context
	w        io.Writer
	children templ.Component
	err      error
}

func (h *writer) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s escaped.
func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *writer) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// href writes a sanitized URL attribute.
func (h *writer) href(name, u string) {
	h.attr(name, string(templ.URL(u)))
}

// classes writes a class attribute built with templ.Classes.
func (h *writer) classes(cls ...any) {
	h.attr("class", templ.Classes(cls...).String())
}

func (h *writer) boolAttr(name string, on bool) {
	if on {
		h.raw(" ", name)
	}
}

func (h *writer) component(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// yield renders the children passed in with templ.WithChildren.
func (h *writer) yield() {
	h.component(h.children)
}

func component(fn func(h *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{ctx: templ.ClearChildren(ctx), w: w, children: templ.GetChildren(ctx)}
		fn(h)
		return h.err
	})
}

// FormatDate renders a post date the way the site shows it: 02.01.2006.
func FormatDate(t time.Time) string {
	return t.Local().Format("02.01.2006.")
}

// HomeHref returns the home URL filtered by category and tag.
func HomeHref(category, tag string) string {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if tag != "" {
		q.Set("tag", tag)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func tagsOf(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
