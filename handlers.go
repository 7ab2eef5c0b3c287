package newsdesk

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/newsdesk/markdown"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	category := c.QueryParam("category")
	tag := c.QueryParam("tag")

	var (
		posts []BlogPost
		err   error
	)
	if tag != "" {
		posts, err = a.Cache.ListPostsByHashtag(ctx, tag)
	} else {
		posts, err = a.Cache.ListPosts(ctx, category)
	}
	if err != nil {
		return err
	}
	if tag != "" && category != "" {
		posts = filterCategory(posts, category)
	}
	tags, err := a.Cache.ListHashtags(ctx)
	if err != nil {
		return err
	}

	meta := PageMeta{}
	if category != "" {
		meta.Title = category + " | " + a.Config.Name
	}
	return Render(c, a.Views.Home(HomePage{
		Layout:     a.layout(c, meta),
		Posts:      posts,
		Categories: Categories,
		Category:   category,
		Hashtags:   tags,
		Tag:        tag,
	}))
}

func filterCategory(posts []BlogPost, category string) []BlogPost {
	var out []BlogPost
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Cache.GetPost(ctx, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	site := SiteInfo{Name: a.Config.Name, URL: a.Config.URL, Description: a.Config.Description}
	return Render(c, a.Views.Post(PostPage{
		Layout: a.layout(c, PageMeta{
			Title:       post.Title + " | " + a.Config.Name,
			Description: PostSummary(post),
			URL:         BuildURL(a.Config.URL, "blogs", post.ID),
			OGType:      "article",
			Image:       post.ImageURL,
		}),
		Post:    post,
		Related: RelatedPosts(post, posts, 3),
		JSONLD:  BlogPostingJSONLD(post, site),
	}))
}

func (a *App) handleNavPage(c echo.Context) error {
	page, src, err := a.readNavPage(c.Param("navPage"))
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.NavPage(NavPageView{
		Layout: a.layout(c, PageMeta{Title: page.Title + " | " + a.Config.Name}),
		Page:   page,
		Body:   markdown.Component(src),
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nDisallow: /dashboard\nDisallow: /api/\nSitemap: " + BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) renderNotFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.layout(c, PageMeta{Title: "Not found | " + a.Config.Name})))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && !isAPI(c) {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		if !isAPI(c) {
			_ = RenderStatus(c, code, a.Views.ServerError(a.layout(c, PageMeta{Title: "Error | " + a.Config.Name})))
			return
		}
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func isAPI(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
