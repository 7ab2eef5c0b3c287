// Package newsdesk is a publishing site for student associations built with
// Go, Echo and templ. Members sign up, compose posts with a featured image
// from the dashboard, and the public site lists them with feeds, a sitemap
// and static navigation pages.
//
// Templates are supplied through ViewFuncs; the views package holds the
// default set.
package newsdesk

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/newsdesk/events"
	"github.com/eringen/newsdesk/logger"
	"github.com/eringen/newsdesk/storage"
)

// App is the central newsdesk application. It wires together the
// repository, cache, object storage, handlers, middleware and templates.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Repo      Repository
	Cache     *PostCache
	Bucket    storage.Bucket
	Announcer events.Announcer
	Blogs     *BlogService
	Tokens    *TokenManager
	Views     ViewFuncs
	Nav       []NavPage

	loginLimiter    *LoginLimiter
	customRoutes    []func(*App)
	contentFS       fs.FS
	metricsRegistry *prometheus.Registry
	initialized     bool
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:          cfg,
		Echo:            echo.New(),
		Views:           views,
		contentFS:       ContentFS(),
		metricsRegistry: prometheus.NewRegistry(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the backends that were not supplied as options and registers
// middleware and routes. Start calls it when needed.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if err := a.Config.validate(); err != nil {
		return err
	}

	if a.Repo == nil {
		repo, err := OpenRepository(ctx, a.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("newsdesk: open repository: %w", err)
		}
		a.Repo = repo
	}

	if a.Bucket == nil {
		bucket, err := a.openBucket(ctx)
		if err != nil {
			return fmt.Errorf("newsdesk: open bucket: %w", err)
		}
		a.Bucket = bucket
	}

	if a.Announcer == nil {
		if a.Config.KafkaBrokers != "" {
			ann, err := events.NewKafkaAnnouncer(a.Config.KafkaBrokers, events.TopicBlogCreated)
			if err != nil {
				return fmt.Errorf("newsdesk: init announcer: %w", err)
			}
			a.Announcer = ann
		} else {
			a.Announcer = events.Nop{}
		}
	}

	tokens, err := NewTokenManager(a.Config.JWTSecret, a.Config.TokenTTL)
	if err != nil {
		return err
	}
	a.Tokens = tokens

	nav, err := loadNav(a.contentFS)
	if err != nil {
		return fmt.Errorf("newsdesk: load navigation: %w", err)
	}
	a.Nav = nav

	a.Cache = NewPostCache(a.Repo, a.Config.PostCacheTTL)
	a.Blogs = NewBlogService(a.Repo, a.Bucket, a.Cache, a.Announcer, a.Config.URL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

func (a *App) openBucket(ctx context.Context) (storage.Bucket, error) {
	if a.Config.S3.Bucket != "" {
		logger.Log.Infof("storing images in s3 bucket %s", a.Config.S3.Bucket)
		return storage.NewS3Bucket(ctx, a.Config.S3)
	}
	logger.Log.Infof("storing images in %s", a.Config.UploadDir)
	return storage.NewLocalBucket(a.Config.UploadDir, a.Config.UploadURLPrefix)
}

// Start initializes the app if needed and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(context.Background()); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(PublicFS())))))
	if lb, ok := a.Bucket.(*storage.LocalBucket); ok {
		e.Static(lb.URLPrefix, lb.Dir)
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, a.metricsRegistry},
	}))

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/blogs/:id", a.handlePost)

	// Auth
	e.GET("/login", a.handleLoginPage)
	e.POST("/login", a.handleLogin)
	e.GET("/sign-up", a.handleSignUpPage)
	e.POST("/sign-up", a.handleSignUp)
	e.POST("/logout", a.handleLogout)

	// Dashboard
	dash := e.Group("/dashboard", a.requireUser)
	dash.GET("", a.handleDashboard)
	dash.GET("/new-blog", a.handleNewBlogForm)
	dash.POST("/new-blog", a.handleNewBlogSubmit)

	// JSON API
	api := e.Group("/api")
	api.POST("/token", a.handleAPIToken)
	api.GET("/blogs", a.handleAPIListBlogs)
	api.GET("/blogs/:id", a.handleAPIGetBlog)
	api.POST("/blogs", a.handleAPICreateBlog, a.bearerAuth)

	// Static navigation pages
	e.GET("/:navPage", a.handleNavPage)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Announcer != nil {
		a.Announcer.Close()
	}
	if a.Repo != nil {
		return a.Repo.Close()
	}
	return nil
}
