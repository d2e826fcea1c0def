// Package service orchestrates repositories, the pagination and search
// engines, and external collaborators into the operations the HTTP layer
// exposes.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"
	"inkwell/internal/search"
	"inkwell/internal/validation"

	"gorm.io/gorm"
)

// relatedLimit caps the related-posts selector output.
const relatedLimit = 4

const widgetsCacheKey = "widgets:v1"
const widgetsCacheTTL = 5 * time.Minute

// PostService implements post listing, detail, search, related posts and
// authoring operations.
type PostService struct {
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
	comRepo  repository.CommentRepository
	pageSize int
}

// NewPostService creates a PostService with the given page size for listings.
func NewPostService(
	postRepo repository.PostRepository,
	tagRepo repository.TagRepository,
	comRepo repository.CommentRepository,
	pageSize int,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		comRepo:  comRepo,
		pageSize: pageSize,
	}
}

// PostPage is one resolved page of a published-post listing.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	Page  int            `json:"page"`
	Total int            `json:"total_pages"`
	Tag   *models.Tag    `json:"tag,omitempty"`
}

// ListPublished returns one page of published posts, optionally filtered by
// tag slug. rawPage follows the standard fallback policy: non-integer input
// resolves to page 1 and out-of-range input to the last page. An unknown tag
// slug is NotFound.
func (s *PostService) ListPublished(ctx context.Context, tagSlug, rawPage string) (*PostPage, error) {
	var filter repository.PostFilter
	var tag *models.Tag

	if tagSlug != "" {
		t, err := s.tagRepo.GetBySlug(ctx, tagSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("tag")
			}
			return nil, err
		}
		tag = t
		filter.TagID = &t.ID
	}

	page, err := s.resolvePage(ctx, filter, rawPage)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListPublished(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	return &PostPage{Posts: posts, Page: page.Number, Total: page.TotalPages, Tag: tag}, nil
}

// Archive returns one page of the published posts of a calendar month,
// applying the same pagination fallback policy as ListPublished.
func (s *PostService) Archive(ctx context.Context, year int, month time.Month, rawPage string) (*PostPage, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	filter := repository.PostFilter{From: &from, To: &to}

	page, err := s.resolvePage(ctx, filter, rawPage)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListPublished(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	return &PostPage{Posts: posts, Page: page.Number, Total: page.TotalPages}, nil
}

// resolvePage counts the filtered set and applies the shared fallback
// policy. The two pagination error kinds recover to different pages and are
// tracked separately.
func (s *PostService) resolvePage(ctx context.Context, filter repository.PostFilter, rawPage string) (pagination.Page, error) {
	count, err := s.postRepo.CountPublished(ctx, filter)
	if err != nil {
		return pagination.Page{}, err
	}

	paginator := pagination.New(int(count), s.pageSize)
	page, err := paginator.Page(rawPage)
	switch {
	case errors.Is(err, pagination.ErrNotAnInteger):
		observability.PaginationFallbacksTotal.WithLabelValues("not_an_integer").Inc()
		page = paginator.First()
	case errors.Is(err, pagination.ErrEmptyPage):
		observability.PaginationFallbacksTotal.WithLabelValues("empty_page").Inc()
		page = paginator.Last()
	}
	return page, nil
}

// PostDetail is the public detail view: the post, its visible comments
// oldest-first, and up to four related posts.
type PostDetail struct {
	Post     *models.Post      `json:"post"`
	Comments []*models.Comment `json:"comments"`
	Related  []*models.Post    `json:"related"`
}

// Detail resolves the date+slug public lookup. Draft posts and missing
// posts are both NotFound; the response never distinguishes them.
func (s *PostService) Detail(ctx context.Context, year int, month time.Month, day int, slug string) (*PostDetail, error) {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	post, err := s.postRepo.GetPublishedBySlug(ctx, slug, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post")
		}
		return nil, err
	}

	comments, err := s.comRepo.ListActiveByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	related, err := s.postRepo.Related(ctx, post, relatedLimit)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: post, Comments: comments, Related: related}, nil
}

// Search ranks published posts against a free-text query. A blank query
// yields an empty result set without touching the store.
func (s *PostService) Search(ctx context.Context, query string) ([]search.Result, error) {
	if strings.TrimSpace(query) == "" {
		observability.SearchQueriesTotal.WithLabelValues("blank").Inc()
		return []search.Result{}, nil
	}

	candidates, err := s.postRepo.AllPublished(ctx)
	if err != nil {
		return nil, err
	}

	results := search.Rank(query, candidates)
	if len(results) == 0 {
		observability.SearchQueriesTotal.WithLabelValues("empty").Inc()
	} else {
		observability.SearchQueriesTotal.WithLabelValues("hit").Inc()
	}
	return results, nil
}

// Widgets aggregates the sidebar data: total published count, the latest
// posts and the most commented posts.
type Widgets struct {
	TotalPosts    int64          `json:"total_posts"`
	Latest        []*models.Post `json:"latest"`
	MostCommented []*models.Post `json:"most_commented"`
}

// Widgets returns the sidebar aggregates, cache-aside through Redis.
func (s *PostService) Widgets(ctx context.Context) (*Widgets, error) {
	var w Widgets
	err := cache.CacheAside(ctx, widgetsCacheKey, &w, widgetsCacheTTL, func() error {
		count, err := s.postRepo.CountPublished(ctx, repository.PostFilter{})
		if err != nil {
			return err
		}
		latest, err := s.postRepo.Latest(ctx, 5)
		if err != nil {
			return err
		}
		most, err := s.postRepo.MostCommented(ctx, 5)
		if err != nil {
			return err
		}
		w = Widgets{TotalPosts: count, Latest: latest, MostCommented: most}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreatePostInput carries an authoring create request.
type CreatePostInput struct {
	UserID  uint
	Title   string
	Slug    string
	Body    string
	Tags    []string
	Publish *time.Time
}

// UpdatePostInput carries an authoring edit request.
type UpdatePostInput struct {
	UserID uint
	PostID uint
	Title  string
	Slug   string
	Body   string
	Tags   []string
}

// Create stores a new draft post. The slug derives from the title when
// absent and must be unique among posts publishing on the same day.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}

	slug := in.Slug
	if slug == "" {
		slug = validation.Slugify(in.Title)
	}
	if err := validation.ValidateSlug(slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	publish := time.Now().UTC()
	if in.Publish != nil {
		publish = in.Publish.UTC()
	}

	taken, err := s.postRepo.ExistsOnDay(ctx, slug, publish, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewValidationError("Slug is already used on this publish date")
	}

	tags, err := s.resolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   in.Title,
		Slug:    slug,
		Body:    in.Body,
		UserID:  in.UserID,
		Status:  models.StatusDraft,
		Publish: publish,
		Tags:    tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Update edits a post owned by the calling author.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.ownedPost(ctx, in.UserID, in.PostID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Body != "" {
		post.Body = in.Body
	}
	if in.Slug != "" && in.Slug != post.Slug {
		if err := validation.ValidateSlug(in.Slug); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		taken, err := s.postRepo.ExistsOnDay(ctx, in.Slug, post.Publish, post.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewValidationError("Slug is already used on this publish date")
		}
		post.Slug = in.Slug
	}

	if in.Tags != nil {
		tags, err := s.resolveTags(ctx, in.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.postRepo.ReplaceTags(ctx, post, tags); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.invalidateWidgets(ctx)
	return s.postRepo.GetByID(ctx, post.ID)
}

// SetStatus moves a post between draft and published. Both directions are
// allowed; visibility everywhere follows from the new status.
func (s *PostService) SetStatus(ctx context.Context, userID, postID uint, status string) (*models.Post, error) {
	if status != models.StatusDraft && status != models.StatusPublished {
		return nil, models.NewValidationError("Invalid status")
	}

	post, err := s.ownedPost(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	post.Status = status
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.invalidateWidgets(ctx)
	return post, nil
}

// GetOwned returns one of the calling author's posts regardless of status.
func (s *PostService) GetOwned(ctx context.Context, userID, postID uint) (*models.Post, error) {
	return s.ownedPost(ctx, userID, postID)
}

func (s *PostService) ownedPost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post")
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only modify your own posts")
	}
	return post, nil
}

func (s *PostService) resolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		slug := validation.Slugify(name)
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		tag, err := s.tagRepo.FindOrCreate(ctx, slug, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (s *PostService) invalidateWidgets(ctx context.Context) {
	cache.Invalidate(ctx, widgetsCacheKey)
}
