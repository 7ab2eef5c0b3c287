package newsdesk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("JWT_SECRET", "j")
	t.Setenv("SITE_NAME", "Studentski portal")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/newsdesk")
	t.Setenv("S3_BUCKET", "images")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("POST_CACHE_TTL", "90s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Studentski portal", cfg.Name)
	assert.Equal(t, "postgres://u:p@db/newsdesk", cfg.DatabaseURL)
	assert.Equal(t, "images", cfg.S3.Bucket)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 90*time.Second, cfg.PostCacheTTL)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "/uploads", cfg.UploadURLPrefix)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("JWT_SECRET", "j")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "SessionSecret")
}

func TestLoadConfigBadDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("JWT_SECRET", "j")
	t.Setenv("POST_CACHE_TTL", "soon")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "POST_CACHE_TTL")
}

func TestSetDefaults(t *testing.T) {
	var cfg SiteConfig
	cfg.setDefaults()
	assert.Equal(t, "Newsdesk", cfg.Name)
	assert.Equal(t, "http://localhost:3000", cfg.URL)
	assert.Equal(t, "data/newsdesk.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
}
