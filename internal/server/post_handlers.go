package server

import (
	"time"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// Query parameters: tag (slug filter), page. A malformed page number falls
// back to the first page, an out-of-range one to the last.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.postService.ListPublished(c.Context(), c.Query("tag"), c.Query("page"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetArchive handles GET /api/posts/archive/:year/:month
func (s *Server) GetArchive(c *fiber.Ctx) error {
	year, month, _, err := s.parseDate(c)
	if err != nil {
		return nil
	}

	page, err := s.postService.Archive(c.Context(), year, month, c.Query("page"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetPostDetail handles GET /api/posts/:year/:month/:day/:slug
func (s *Server) GetPostDetail(c *fiber.Ctx) error {
	year, month, day, err := s.parseDate(c)
	if err != nil {
		return nil
	}

	detail, err := s.postService.Detail(c.Context(), year, month, day, c.Params("slug"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// SearchPosts handles GET /api/posts/search?q=
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := c.Query("q")
	results, err := s.postService.Search(c.Context(), query)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"query":   query,
		"results": results,
	})
}

// GetWidgets handles GET /api/widgets
func (s *Server) GetWidgets(c *fiber.Ctx) error {
	widgets, err := s.postService.Widgets(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(widgets)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagRepo.ListWithPublishedCounts(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

type postRequest struct {
	Title   string     `json:"title"`
	Slug    string     `json:"slug"`
	Body    string     `json:"body"`
	Tags    []string   `json:"tags"`
	Publish *time.Time `json:"publish"`
}

// CreatePost handles POST /api/admin/posts. New posts start as drafts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), service.CreatePostInput{
		UserID:  s.currentUserID(c),
		Title:   req.Title,
		Slug:    req.Slug,
		Body:    req.Body,
		Tags:    req.Tags,
		Publish: req.Publish,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetOwnPost handles GET /api/admin/posts/:id, returning the author's post
// regardless of status.
func (s *Server) GetOwnPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetOwned(c.Context(), s.currentUserID(c), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/admin/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), service.UpdatePostInput{
		UserID: s.currentUserID(c),
		PostID: id,
		Title:  req.Title,
		Slug:   req.Slug,
		Body:   req.Body,
		Tags:   req.Tags,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(post)
}

// PublishPost handles POST /api/admin/posts/:id/publish
func (s *Server) PublishPost(c *fiber.Ctx) error {
	return s.setPostStatus(c, models.StatusPublished)
}

// UnpublishPost handles POST /api/admin/posts/:id/draft
func (s *Server) UnpublishPost(c *fiber.Ctx) error {
	return s.setPostStatus(c, models.StatusDraft)
}

func (s *Server) setPostStatus(c *fiber.Ctx, status string) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.SetStatus(c.Context(), s.currentUserID(c), id, status)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(post)
}
