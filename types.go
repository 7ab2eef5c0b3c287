package newsdesk

import "time"

// BlogPost is the core content type stored in the blogs table and rendered by templates.
type BlogPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	ImageAlt    string    `json:"image_alt"`
	Category    string    `json:"category"`
	Content     string    `json:"content"` // editor HTML, stored verbatim
	Hashtags    []string  `json:"hashtags"`
	Author      string    `json:"author"`
	AuthorID    string    `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Link returns the public path of the post.
func (p BlogPost) Link() string {
	return "/blogs/" + p.ID
}

// User is an account that may sign in and publish posts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// DisplayName is the author string recorded on posts: "<first> <last>".
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Categories is the fixed set of association labels a post may be filed under.
var Categories = []string{
	"Šou program",
	"Hercul",
	"FINTUR",
	"Una Corda",
	"CompetIT",
	"ISHA",
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}

// NavPage is a static page listed in the site navigation.
type NavPage struct {
	Slug  string `yaml:"slug"`
	Title string `yaml:"title"`
}

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Kind    string
	Message string
}
