package newsdesk

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the components the App renders. The views package
// provides the default set; tests and sites may supply their own.
type ViewFuncs struct {
	Home        func(p HomePage) templ.Component
	Post        func(p PostPage) templ.Component
	NavPage     func(p NavPageView) templ.Component
	Login       func(p AuthPage) templ.Component
	SignUp      func(p AuthPage) templ.Component
	Dashboard   func(p DashboardPage) templ.Component
	NewBlog     func(p NewBlogPage) templ.Component
	NotFound    func(l Layout) templ.Component
	ServerError func(l Layout) templ.Component
}

// SiteInfo is the public part of SiteConfig handed to templates.
type SiteInfo struct {
	Name        string
	URL         string
	Description string
}

// Layout is the data every full page needs.
type Layout struct {
	Site   SiteInfo
	Meta   PageMeta
	Nav    []NavPage
	User   *User
	CSRF   string
	Toasts []Toast
}

// HomePage lists posts, optionally narrowed to a category or hashtag.
type HomePage struct {
	Layout
	Posts      []BlogPost
	Categories []string
	Category   string
	Hashtags   []string
	Tag        string
}

// PostPage is the blog detail view.
type PostPage struct {
	Layout
	Post    BlogPost
	Related []BlogPost
	JSONLD  string
}

// NavPageView is a static page rendered from markdown.
type NavPageView struct {
	Layout
	Page NavPage
	Body templ.Component
}

// AuthPage backs the login and sign-up forms.
type AuthPage struct {
	Layout
	Error  string
	Next   string
	Values SignUpInput
	Errors map[string]string
}

// DashboardPage lists the signed-in member's posts.
type DashboardPage struct {
	Layout
	Posts []BlogPost
}

// NewBlogPage is the submission form. Values and Errors are filled when a
// failed submission is shown again.
type NewBlogPage struct {
	Layout
	Categories []string
	Values     NewBlogInput
	CreateMore bool
	Errors     map[string]string
}

// layout builds the common page data. It consumes the queued toasts.
func (a *App) layout(c echo.Context, meta PageMeta) Layout {
	l := Layout{
		Site: SiteInfo{
			Name:        a.Config.Name,
			URL:         a.Config.URL,
			Description: a.Config.Description,
		},
		Meta:   meta,
		Nav:    a.Nav,
		CSRF:   CsrfToken(c),
		Toasts: popToasts(c),
	}
	if l.Meta.Title == "" {
		l.Meta.Title = a.Config.Name
	}
	if l.Meta.Description == "" {
		l.Meta.Description = a.Config.Description
	}
	if l.Meta.URL == "" {
		l.Meta.URL = BuildURL(a.Config.URL, c.Request().URL.Path)
	}
	if l.Meta.OGType == "" {
		l.Meta.OGType = "website"
	}
	if u, ok := a.CurrentUser(c); ok {
		l.User = &u
	}
	return l
}
