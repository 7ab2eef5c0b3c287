// Package events announces newly published posts to downstream consumers,
// such as the mailer that notifies every member.
package events

import (
	"context"
	"time"
)

// TopicBlogCreated carries one message per post published with the
// "send to all users" option.
const TopicBlogCreated = "blog.created"

// Announcement is the payload published for a new post.
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	Hashtags    []string  `json:"hashtags"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
}

// Announcer publishes announcements.
type Announcer interface {
	Announce(ctx context.Context, a Announcement) error
	Close()
}

// Nop drops every announcement. Used when no broker is configured.
type Nop struct{}

// Announce does nothing.
func (Nop) Announce(context.Context, Announcement) error { return nil }

// Close does nothing.
func (Nop) Close() {}
