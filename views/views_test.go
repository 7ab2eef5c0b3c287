package views

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/newsdesk"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testLayout() newsdesk.Layout {
	return newsdesk.Layout{
		Site: newsdesk.SiteInfo{Name: "Newsdesk", URL: "https://example.org"},
		Meta: newsdesk.PageMeta{Title: "Naslovnica", URL: "https://example.org/", OGType: "website"},
		Nav:  []newsdesk.NavPage{{Slug: "o-nama", Title: "O nama"}},
		CSRF: "tok123",
	}
}

func TestLayoutAnonymous(t *testing.T) {
	out := render(t, NotFound(testLayout()))
	assert.Contains(t, out, "<title>Naslovnica</title>")
	assert.Contains(t, out, `href="/o-nama"`)
	assert.Contains(t, out, `href="/login"`)
	assert.NotContains(t, out, `action="/logout"`)
}

func TestLayoutRendersBodyInMain(t *testing.T) {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if templ.GetChildren(ctx) != nil {
			return errors.New("body rendered with the layout's children")
		}
		_, err := io.WriteString(w, "<p>tijelo</p>")
		return err
	})
	out := render(t, Layout(testLayout(), body))
	assert.Contains(t, out, "<main><p>tijelo</p></main>")
	assert.Equal(t, 1, strings.Count(out, "<p>tijelo</p>"))
}

func TestLayoutSignedInAndToasts(t *testing.T) {
	l := testLayout()
	l.User = &newsdesk.User{ID: "u1", FirstName: "Ana", LastName: "Horvat"}
	l.Toasts = []newsdesk.Toast{{Kind: newsdesk.ToastSuccess, Message: "Blog created successfully!"}}
	out := render(t, ServerError(l))
	assert.Contains(t, out, "Ana Horvat")
	assert.Contains(t, out, `action="/logout"`)
	assert.Contains(t, out, `name="_csrf" value="tok123"`)
	assert.Contains(t, out, `class="toast success"`)
	assert.Contains(t, out, "Blog created successfully!")
}

func TestHomeEscapesAndFilters(t *testing.T) {
	out := render(t, Home(newsdesk.HomePage{
		Layout:     testLayout(),
		Categories: []string{"Hercul", "ISHA"},
		Category:   "ISHA",
		Hashtags:   []string{"sport"},
		Posts: []newsdesk.BlogPost{{
			ID: "p1", Title: "<b>Hi</b>", Description: "opis", Category: "ISHA",
			ImageURL: "https://cdn.example.org/a.jpg", ImageAlt: "A", CreatedAt: time.Now(),
		}},
	}))
	assert.Contains(t, out, "&lt;b&gt;Hi&lt;/b&gt;")
	assert.Contains(t, out, `href="/blogs/p1"`)
	assert.Contains(t, out, `class="pill active" href="/?category=ISHA"`)
	assert.Contains(t, out, `href="/?tag=sport"`)
	assert.Contains(t, out, `src="https://cdn.example.org/a.jpg"`)
}

func TestHomeEmpty(t *testing.T) {
	out := render(t, Home(newsdesk.HomePage{Layout: testLayout()}))
	assert.Contains(t, out, `class="empty"`)
}

func TestPostSanitizesContent(t *testing.T) {
	out := render(t, Post(newsdesk.PostPage{
		Layout: testLayout(),
		Post: newsdesk.BlogPost{
			ID: "p1", Title: "Naslov", Author: "Ana Horvat",
			Content:  `<p>Tekst<script>alert(1)</script></p>`,
			Hashtags: []string{"a", ""},
		},
		Related: []newsdesk.BlogPost{{ID: "p2", Title: "Druga"}},
		JSONLD:  `{"@type":"BlogPosting"}`,
	}))
	assert.Contains(t, out, "<p>Tekst</p>")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, `{"@type":"BlogPosting"}`)
	assert.Contains(t, out, `href="/blogs/p2"`)
	assert.Contains(t, out, "#a")
}

func TestNewBlogKeepsValues(t *testing.T) {
	out := render(t, NewBlog(newsdesk.NewBlogPage{
		Layout:     testLayout(),
		Categories: []string{"Hercul", "ISHA"},
		Values: newsdesk.NewBlogInput{
			Title:       "Moj naslov",
			Description: "Opis",
			Category:    "ISHA",
			Hashtags:    "a, b",
			Announce:    true,
		},
		CreateMore: true,
		Errors:     map[string]string{"title": "cannot be blank"},
	}))
	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, `value="Moj naslov"`)
	assert.Contains(t, out, `<option value="ISHA" selected>`)
	assert.Contains(t, out, `name="send-users" checked`)
	assert.Contains(t, out, `name="create-more" checked`)
	assert.Contains(t, out, `accept="image/*"`)
	assert.Contains(t, out, "cannot be blank")
}

func TestSignUpShowsFieldErrors(t *testing.T) {
	out := render(t, SignUp(newsdesk.AuthPage{
		Layout: testLayout(),
		Values: newsdesk.SignUpInput{FirstName: "Ana", Email: "ana@example.org"},
		Errors: map[string]string{"email": "already registered"},
	}))
	assert.Contains(t, out, `value="ana@example.org"`)
	assert.Contains(t, out, "already registered")
	assert.NotContains(t, out, `name="password" type="password" value`)
}

func TestHomeHref(t *testing.T) {
	assert.Equal(t, "/", HomeHref("", ""))
	assert.Equal(t, "/?category=%C5%A0ou+program", HomeHref("Šou program", ""))
	assert.Equal(t, "/?tag=x", HomeHref("", "x"))
}
