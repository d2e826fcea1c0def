// Package repository provides data access layer implementations for the application.
package repository

import (
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Published is the single public-visibility gate. Every public query path
// (listing, detail, search candidates, feed, sitemap, related posts, comment
// and share targets) must go through this scope; draft posts never leak.
func Published(db *gorm.DB) *gorm.DB {
	return db.Where("posts.status = ?", models.StatusPublished)
}
