package newsdesk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionName    = "newsdesk_session"
	sessionUserKey = "user_id"
	userContextKey = "newsdesk.user"
)

// bcryptCost is lowered in tests.
var bcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SignUpInput is the sign-up form.
type SignUpInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Repeat    string `json:"repeat_password"`
}

// Validate checks the sign-up form. bcrypt ignores bytes past 72, so longer
// passwords are refused.
func (in SignUpInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required, validation.RuneLength(0, 100)),
		validation.Field(&in.LastName, validation.Required, validation.RuneLength(0, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&in.Repeat, validation.Required, validation.In(in.Password).Error("passwords do not match")),
	)
}

// RegisterUser validates in and stores a new account with a hashed password.
func RegisterUser(ctx context.Context, users UserStore, in SignUpInput) (User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return User{}, &ValidationError{Err: err}
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	u, err := users.CreateUser(ctx, User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if errors.Is(err, ErrEmailTaken) {
		return User{}, &ValidationError{Field: "email", Err: err}
	}
	return u, err
}

// Authenticate returns the account for email when password matches.
// Unknown emails and wrong passwords both yield ErrNotFound.
func Authenticate(ctx context.Context, users UserStore, email, password string) (User, error) {
	u, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

func setUserSession(c echo.Context, userID string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionUserKey] = userID
	return sess.Save(c.Request(), c.Response())
}

func clearSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, sessionUserKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// CurrentUser returns the signed-in user of the request, resolved from the
// session cookie or set by the bearer token middleware.
func (a *App) CurrentUser(c echo.Context) (User, bool) {
	if u, ok := c.Get(userContextKey).(User); ok {
		return u, true
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return User{}, false
	}
	id, _ := sess.Values[sessionUserKey].(string)
	if id == "" {
		return User{}, false
	}
	u, err := a.Repo.GetUser(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.Logger().Errorf("load session user %s: %v", id, err)
		}
		return User{}, false
	}
	c.Set(userContextKey, u)
	return u, true
}

// requireUser redirects anonymous requests to the login page.
func (a *App) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := a.CurrentUser(c); !ok {
			return c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request().URL.Path))
		}
		return next(c)
	}
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/dashboard"
	}
	return next
}

// addFlash queues a toast for the next rendered page.
func addFlash(c echo.Context, kind, message string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.AddFlash(message, kind)
	return sess.Save(c.Request(), c.Response())
}

// popToasts returns and clears the queued toasts.
func popToasts(c echo.Context) []Toast {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	var toasts []Toast
	for _, kind := range []string{ToastSuccess, ToastError} {
		for _, f := range sess.Flashes(kind) {
			if msg, ok := f.(string); ok {
				toasts = append(toasts, Toast{Kind: kind, Message: msg})
			}
		}
	}
	if len(toasts) > 0 {
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			c.Logger().Warnf("save session after flashes: %v", err)
		}
	}
	return toasts
}
