// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post status values. Only published posts are visible on any public path.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post represents a blog post. A post is addressed publicly by its publish
// day plus slug, so (slug, publish day) must stay unique; the service layer
// enforces this on create and update.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Slug      string    `gorm:"not null;index:idx_posts_slug_publish" json:"slug"`
	Body      string    `gorm:"not null" json:"body"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Status    string    `gorm:"not null;default:draft;index" json:"status"`
	Publish   time.Time `gorm:"not null;index:idx_posts_slug_publish;index" json:"publish"`
	Tags      []Tag     `gorm:"many2many:post_tags;" json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Published reports whether the post is publicly visible.
func (p *Post) Published() bool {
	return p.Status == StatusPublished
}

// PublicPath returns the canonical URL path for the post detail page.
func (p *Post) PublicPath() string {
	return p.Publish.Format("/api/posts/2006/01/02/") + p.Slug
}
