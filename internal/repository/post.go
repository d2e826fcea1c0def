package repository

import (
	"context"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// PostFilter narrows published-post listings. A nil field means no filter.
type PostFilter struct {
	TagID *uint
	// From/To bound the publish timestamp as [From, To).
	From *time.Time
	To   *time.Time
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetPublishedByID(ctx context.Context, id uint) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string, day time.Time) (*models.Post, error)
	CountPublished(ctx context.Context, filter PostFilter) (int64, error)
	ListPublished(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error)
	Latest(ctx context.Context, n int) ([]*models.Post, error)
	MostCommented(ctx context.Context, n int) ([]*models.Post, error)
	Related(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error)
	AllPublished(ctx context.Context) ([]*models.Post, error)
	ExistsOnDay(ctx context.Context, slug string, day time.Time, excludeID uint) (bool, error)
	ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:  db,
		log: observability.NewRepoLogger("posts"),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetPublishedByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		Scopes(Published).
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPublishedBySlug resolves the public detail lookup: a published post with
// the given slug whose publish timestamp falls on the given day. The day
// bounds are computed here rather than with SQL date functions so the query
// behaves identically on Postgres and the SQLite test databases.
func (r *postRepository) GetPublishedBySlug(ctx context.Context, slug string, day time.Time) (*models.Post, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags").
		Scopes(Published).
		Where("posts.slug = ?", slug).
		Where("posts.publish >= ? AND posts.publish < ?", start, end).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) CountPublished(ctx context.Context, filter PostFilter) (int64, error) {
	var count int64
	err := r.filtered(r.db.WithContext(ctx).Model(&models.Post{}), filter).
		Count(&count).Error
	return count, err
}

func (r *postRepository) ListPublished(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("list_published", "posts")()

	var posts []*models.Post
	err := r.filtered(r.db.WithContext(ctx).Model(&models.Post{}), filter).
		Preload("User").
		Preload("Tags").
		Order("posts.publish DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		r.log.LogError(ctx, err, "list_published")
	}
	return posts, err
}

func (r *postRepository) filtered(q *gorm.DB, filter PostFilter) *gorm.DB {
	q = q.Scopes(Published)
	if filter.TagID != nil {
		q = q.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", *filter.TagID)
	}
	if filter.From != nil {
		q = q.Where("posts.publish >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("posts.publish < ?", *filter.To)
	}
	return q
}

func (r *postRepository) Latest(ctx context.Context, n int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Scopes(Published).
		Order("posts.publish DESC").
		Limit(n).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) MostCommented(ctx context.Context, n int) ([]*models.Post, error) {
	defer observability.TrackQuery("most_commented", "posts")()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, COUNT(comments.id) AS total_comments").
		Joins("LEFT JOIN comments ON comments.post_id = posts.id AND comments.active = ?", true).
		Scopes(Published).
		Group("posts.id").
		Order("total_comments DESC, posts.publish DESC").
		Limit(n).
		Find(&posts).Error
	return posts, err
}

// Related finds published posts sharing at least one tag with post, ranked by
// shared-tag count, most recent publish first on ties, excluding post itself.
func (r *postRepository) Related(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error) {
	defer observability.TrackQuery("related", "posts")()

	tagIDs := r.db.Table("post_tags").Select("tag_id").Where("post_id = ?", post.ID)

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, COUNT(post_tags.tag_id) AS same_tags").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id IN (?)", tagIDs).
		Where("posts.id <> ?", post.ID).
		Scopes(Published).
		Group("posts.id").
		Order("same_tags DESC, posts.publish DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// AllPublished loads every published post, newest first. The search ranking
// engine and the sitemap builders both work from this set.
func (r *postRepository) AllPublished(ctx context.Context) ([]*models.Post, error) {
	defer observability.TrackQuery("all_published", "posts")()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Scopes(Published).
		Order("posts.publish DESC").
		Find(&posts).Error
	if err != nil {
		r.log.LogError(ctx, err, "all_published")
	}
	return posts, err
}

// ExistsOnDay reports whether another post already uses slug on the given
// publish day. excludeID skips the post being updated.
func (r *postRepository) ExistsOnDay(ctx context.Context, slug string, day time.Time, excludeID uint) (bool, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var count int64
	q := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("posts.slug = ?", slug).
		Where("posts.publish >= ? AND posts.publish < ?", start, end)
	if excludeID != 0 {
		q = q.Where("posts.id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *postRepository) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(post).Association("Tags").Replace(tags)
}
