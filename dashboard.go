package newsdesk

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/newsdesk/logger"
)

const (
	msgBlogCreated = "Blog created successfully!"
	msgBlogFailed  = "Failed to create blog"
)

func (a *App) handleLoginPage(c echo.Context) error {
	if _, ok := a.CurrentUser(c); ok {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return Render(c, a.Views.Login(AuthPage{
		Layout: a.layout(c, PageMeta{Title: "Prijava | " + a.Config.Name}),
		Next:   c.QueryParam("next"),
	}))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	email := c.FormValue("email")
	next := c.FormValue("next")
	page := func(code int, msg string) error {
		return RenderStatus(c, code, a.Views.Login(AuthPage{
			Layout: a.layout(c, PageMeta{Title: "Prijava | " + a.Config.Name}),
			Error:  msg,
			Next:   next,
			Values: SignUpInput{Email: email},
		}))
	}

	if !a.loginLimiter.Check(ip) {
		return page(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	u, err := Authenticate(c.Request().Context(), a.Repo, email, c.FormValue("password"))
	if errors.Is(err, ErrNotFound) {
		a.loginLimiter.Record(ip)
		return page(http.StatusUnauthorized, "Invalid email or password.")
	}
	if err != nil {
		return err
	}
	a.loginLimiter.Reset(ip)
	if err := setUserSession(c, u.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, safeNext(next))
}

func (a *App) handleSignUpPage(c echo.Context) error {
	return Render(c, a.Views.SignUp(AuthPage{
		Layout: a.layout(c, PageMeta{Title: "Registracija | " + a.Config.Name}),
	}))
}

func (a *App) handleSignUp(c echo.Context) error {
	in := SignUpInput{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		Repeat:    c.FormValue("repeat_password"),
	}
	u, err := RegisterUser(c.Request().Context(), a.Repo, in)
	if IsValidation(err) {
		in.Password, in.Repeat = "", ""
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.SignUp(AuthPage{
			Layout: a.layout(c, PageMeta{Title: "Registracija | " + a.Config.Name}),
			Values: in,
			Errors: FieldErrors(err),
		}))
	}
	if err != nil {
		return err
	}
	logger.Log.Infof("registered user %s", u.ID)
	if err := setUserSession(c, u.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleDashboard(c echo.Context) error {
	u, _ := a.CurrentUser(c)
	posts, err := a.Repo.ListPostsByAuthor(c.Request().Context(), u.ID)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Dashboard(DashboardPage{
		Layout: a.layout(c, PageMeta{Title: "Dashboard | " + a.Config.Name}),
		Posts:  posts,
	}))
}

func (a *App) handleNewBlogForm(c echo.Context) error {
	return Render(c, a.Views.NewBlog(a.newBlogPage(c, NewBlogInput{}, false, nil)))
}

func (a *App) newBlogPage(c echo.Context, in NewBlogInput, createMore bool, errs map[string]string) NewBlogPage {
	return NewBlogPage{
		Layout:     a.layout(c, PageMeta{Title: "Novi post | " + a.Config.Name}),
		Categories: Categories,
		Values:     in,
		CreateMore: createMore,
		Errors:     errs,
	}
}

// handleNewBlogSubmit publishes the submitted form. On success it flashes a
// toast and redirects; on failure the form is shown again with the values
// and an error toast.
func (a *App) handleNewBlogSubmit(c echo.Context) error {
	u, _ := a.CurrentUser(c)
	in := NewBlogInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Content:     c.FormValue("content"),
		Hashtags:    c.FormValue("hashtags"),
		Announce:    c.FormValue("send-users") != "",
	}
	createMore := c.FormValue("create-more") != ""

	img, closeImg, err := formImage(c, "image")
	if err != nil {
		return a.renderSubmitFailure(c, in, createMore, err)
	}
	defer closeImg()

	post, err := a.Blogs.Create(c.Request().Context(), u, in, img)
	if err != nil {
		return a.renderSubmitFailure(c, in, createMore, err)
	}
	logger.Log.Infof("post %s created by %s", post.ID, u.ID)

	if err := addFlash(c, ToastSuccess, msgBlogCreated); err != nil {
		c.Logger().Warnf("flash: %v", err)
	}
	if createMore {
		return c.Redirect(http.StatusSeeOther, "/dashboard/new-blog")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (a *App) renderSubmitFailure(c echo.Context, in NewBlogInput, createMore bool, err error) error {
	logger.Log.Errorf("create blog: %v", err)
	code := http.StatusInternalServerError
	if IsValidation(err) {
		code = http.StatusUnprocessableEntity
	}
	page := a.newBlogPage(c, in, createMore, FieldErrors(err))
	page.Toasts = append(page.Toasts, Toast{Kind: ToastError, Message: msgBlogFailed})
	return RenderStatus(c, code, a.Views.NewBlog(page))
}

// formImage opens the optional file field. A missing or empty field yields
// a nil upload.
func formImage(c echo.Context, field string) (*ImageUpload, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) || (err == nil && fh.Size == 0) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return openImage(fh)
}

func openImage(fh *multipart.FileHeader) (*ImageUpload, func(), error) {
	if fh.Size > maxUploadSize {
		return nil, nil, &ValidationError{Field: "image", Err: ErrImageTooLarge}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &ImageUpload{Filename: fh.Filename, Body: f}, func() { f.Close() }, nil
}
