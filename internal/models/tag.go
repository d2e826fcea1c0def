package models

// Tag is a classification label shared across posts. Tags are created on
// first use and live independently of any single post.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
	Name string `gorm:"not null" json:"name"`
	// PostCount is not persisted; computed at query time for tag listings.
	PostCount int64  `gorm:"->;-:migration;column:post_count" json:"post_count,omitempty"`
	Posts     []Post `gorm:"many2many:post_tags;" json:"-"`
}
