package newsdesk

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/newsdesk/logger"
)

type tokenRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (a *App) handleAPIToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many attempts"})
	}
	u, err := Authenticate(c.Request().Context(), a.Repo, req.Email, req.Password)
	if errors.Is(err, ErrNotFound) {
		a.loginLimiter.Record(ip)
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
	}
	if err != nil {
		return err
	}
	a.loginLimiter.Reset(ip)
	token, exp, err := a.Tokens.Sign(u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token, ExpiresAt: exp})
}

func (a *App) handleAPIListBlogs(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		posts []BlogPost
		err   error
	)
	if tag := c.QueryParam("tag"); tag != "" {
		posts, err = a.Cache.ListPostsByHashtag(ctx, tag)
	} else {
		posts, err = a.Cache.ListPosts(ctx, c.QueryParam("category"))
	}
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []BlogPost{}
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleAPIGetBlog(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// handleAPICreateBlog accepts the same multipart fields as the dashboard form.
func (a *App) handleAPICreateBlog(c echo.Context) error {
	u, _ := a.CurrentUser(c)
	in := NewBlogInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Content:     c.FormValue("content"),
		Hashtags:    c.FormValue("hashtags"),
		Announce:    c.FormValue("send-users") != "",
	}
	img, closeImg, err := formImage(c, "image")
	if err != nil {
		return a.apiCreateFailure(c, err)
	}
	defer closeImg()

	post, err := a.Blogs.Create(c.Request().Context(), u, in, img)
	if err != nil {
		return a.apiCreateFailure(c, err)
	}
	c.Response().Header().Set(echo.HeaderLocation, "/api/blogs/"+post.ID)
	return c.JSON(http.StatusCreated, post)
}

func (a *App) apiCreateFailure(c echo.Context, err error) error {
	logger.Log.Errorf("api create blog: %v", err)
	if IsValidation(err) {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: FieldErrors(err)})
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create blog"})
}
