package newsdesk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/eringen/newsdesk/events"
	"github.com/eringen/newsdesk/logger"
	"github.com/eringen/newsdesk/metrics"
	"github.com/eringen/newsdesk/storage"
)

// NewBlogInput is the submitted form, before the image is stored.
type NewBlogInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Content     string `json:"content"`
	Hashtags    string `json:"hashtags"` // raw comma separated field
	Announce    bool   `json:"send_users"`
}

// ImageUpload is the optional featured image of a submission.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// ValidationError reports input that was refused before anything was stored.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FieldErrors returns the per-field messages of a validation failure, keyed
// by form field name. It returns nil for other errors.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string)
	var verrs validation.Errors
	if errors.As(ve.Err, &verrs) {
		for field, e := range verrs {
			out[field] = e.Error()
		}
		return out
	}
	out[ve.Field] = ve.Err.Error()
	return out
}

func (in NewBlogInput) trimmed() NewBlogInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Hashtags = strings.TrimSpace(in.Hashtags)
	return in
}

// Validate checks the required fields and the category label. An empty
// category is allowed.
func (in NewBlogInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(0, 200)),
		validation.Field(&in.Description, validation.Required, validation.RuneLength(0, 1000)),
		validation.Field(&in.Hashtags, validation.Required),
		validation.Field(&in.Category, validation.In(categoryValues()...).Error("must be one of the association labels")),
	)
}

func categoryValues() []any {
	out := make([]any, len(Categories))
	for i, c := range Categories {
		out[i] = c
	}
	return out
}

// defaultAnnounceTimeout bounds how long a submission waits for the broker.
const defaultAnnounceTimeout = 5 * time.Second

// BlogService runs the publish sequence shared by the dashboard form and the API.
type BlogService struct {
	posts     PostRepository
	bucket    storage.Bucket
	cache     *PostCache
	announcer events.Announcer
	siteURL   string

	announceTimeout time.Duration
}

// NewBlogService wires the service. A nil announcer drops announcements.
func NewBlogService(posts PostRepository, bucket storage.Bucket, cache *PostCache, announcer events.Announcer, siteURL string) *BlogService {
	if announcer == nil {
		announcer = events.Nop{}
	}
	return &BlogService{
		posts:     posts,
		bucket:    bucket,
		cache:     cache,
		announcer: announcer,
		siteURL:   siteURL,

		announceTimeout: defaultAnnounceTimeout,
	}
}

// Create validates in, stores the image if one was given, inserts the post
// authored by author and invalidates the post cache. The steps run in order
// and stop at the first failure; an image already uploaded is left in place
// when the insert fails.
func (s *BlogService) Create(ctx context.Context, author User, in NewBlogInput, img *ImageUpload) (BlogPost, error) {
	post, err := s.create(ctx, author, in, img)
	switch {
	case err == nil:
		metrics.ObserveSubmission(metrics.ResultCreated)
	case IsValidation(err):
		metrics.ObserveSubmission(metrics.ResultInvalid)
	default:
		metrics.ObserveSubmission(metrics.ResultFailed)
	}
	return post, err
}

func (s *BlogService) create(ctx context.Context, author User, in NewBlogInput, img *ImageUpload) (BlogPost, error) {
	if author.ID == "" {
		return BlogPost{}, errors.New("create post: no authenticated author")
	}
	// Title and description are stored as submitted; only the checks see them trimmed.
	checked := in.trimmed()
	if err := checked.Validate(); err != nil {
		return BlogPost{}, &ValidationError{Err: err}
	}

	imageURL := ""
	if img != nil {
		u, err := s.storeImage(ctx, img)
		if err != nil {
			return BlogPost{}, err
		}
		imageURL = u
	}

	post, err := s.posts.InsertPost(ctx, BlogPost{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    imageURL,
		ImageAlt:    in.Title,
		Category:    checked.Category,
		Content:     in.Content,
		Hashtags:    ParseHashtags(in.Hashtags),
		Author:      author.DisplayName(),
		AuthorID:    author.ID,
	})
	if err != nil {
		return BlogPost{}, fmt.Errorf("insert post: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate()
	}
	if in.Announce {
		s.announce(ctx, post)
	}
	return post, nil
}

func (s *BlogService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	data, err := normalizeImage(img.Body)
	if err != nil {
		return "", err
	}
	objectPath := storage.RandomImagePath("jpg")
	if err := s.bucket.Upload(ctx, objectPath, "image/jpeg", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	metrics.ObserveUpload(s.bucket.Backend())
	logger.Log.Debugf("stored image %q as %s (%d bytes)", img.Filename, objectPath, len(data))
	return s.bucket.PublicURL(objectPath), nil
}

// announce never fails the submission; the post is already stored.
func (s *BlogService) announce(ctx context.Context, p BlogPost) {
	ctx, cancel := context.WithTimeout(ctx, s.announceTimeout)
	defer cancel()
	err := s.announcer.Announce(ctx, events.Announcement{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		URL:         BuildURL(s.siteURL, "blogs", p.ID),
		ImageURL:    p.ImageURL,
		Category:    p.Category,
		Hashtags:    p.Hashtags,
		Author:      p.Author,
		CreatedAt:   p.CreatedAt,
	})
	metrics.ObserveAnnouncement(err)
	if err != nil {
		logger.Log.Errorf("announce post %s: %v", p.ID, err)
	}
}
