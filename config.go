package newsdesk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/newsdesk/events"
	"github.com/eringen/newsdesk/storage"
)

// SiteConfig holds all configuration for a newsdesk site.
type SiteConfig struct {
	Name        string // Site name (default "Newsdesk")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr        string // Listen address (default ":3000")
	DatabaseURL string // SQLite path or postgres:// URL (default "data/newsdesk.db")

	SessionSecret string // Required: session cookie secret
	JWTSecret     string // Required: API token signing secret
	CookieSecure  bool   // Set true for HTTPS

	UploadDir       string // Local image directory when S3 is not configured (default "data/uploads")
	UploadURLPrefix string // URL prefix for local images (default "/uploads")
	S3              storage.S3Config

	KafkaBrokers string // bootstrap.servers; empty disables announcements
	LogLevel     string // debug, info, warn, error (default "info")

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
	TokenTTL     time.Duration // API token lifetime (default 24h)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Newsdesk"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = "data/newsdesk.db"
	}
	if c.UploadDir == "" {
		c.UploadDir = "data/uploads"
	}
	if c.UploadURLPrefix == "" {
		c.UploadURLPrefix = "/uploads"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * time.Hour
	}
}

func (c SiteConfig) validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("newsdesk: SessionSecret is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("newsdesk: JWTSecret is required")
	}
	return nil
}

// LoadConfig reads the configuration from the environment. Values in a .env
// file in the working directory are loaded first without overriding variables
// that are already set.
func LoadConfig() (SiteConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := SiteConfig{
		Name:          os.Getenv("SITE_NAME"),
		URL:           os.Getenv("SITE_URL"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Addr:          os.Getenv("ADDR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		S3: storage.S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
			AccessKey: os.Getenv("S3_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
		KafkaBrokers: os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}
	if v := os.Getenv("POST_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("POST_CACHE_TTL: %w", err)
		}
		cfg.PostCacheTTL = d
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithRepository uses repo instead of opening Config.DatabaseURL.
func WithRepository(repo Repository) Option {
	return func(a *App) {
		a.Repo = repo
	}
}

// WithBucket uses b for post images instead of the configured backend.
func WithBucket(b storage.Bucket) Option {
	return func(a *App) {
		a.Bucket = b
	}
}

// WithAnnouncer publishes post announcements through ann.
func WithAnnouncer(ann events.Announcer) Option {
	return func(a *App) {
		a.Announcer = ann
	}
}

// WithContentFS serves navigation pages from fsys instead of the embedded content.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}
