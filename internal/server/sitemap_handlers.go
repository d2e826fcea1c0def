package server

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/snabb/sitemap"
)

const (
	postSitemapPriority = 0.9
	tagSitemapPriority  = 0.8
)

// GetSitemapIndex handles GET /sitemap.xml, pointing crawlers at the post
// and tag section sitemaps.
func (s *Server) GetSitemapIndex(c *fiber.Ctx) error {
	index := sitemap.NewSitemapIndex()
	index.Add(&sitemap.URL{Loc: s.config.SiteURL + "/sitemap-posts.xml"})
	index.Add(&sitemap.URL{Loc: s.config.SiteURL + "/sitemap-tags.xml"})
	return s.sendSitemap(c, index)
}

// GetPostSitemap handles GET /sitemap-posts.xml. Every published post is
// listed with its last modification time.
func (s *Server) GetPostSitemap(c *fiber.Ctx) error {
	posts, err := s.postRepo.AllPublished(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}

	sm := sitemap.New()
	for _, post := range posts {
		lastMod := post.UpdatedAt
		sm.Add(&sitemap.URL{
			Loc:        s.config.SiteURL + post.PublicPath(),
			LastMod:    &lastMod,
			ChangeFreq: sitemap.Weekly,
			Priority:   postSitemapPriority,
		})
	}
	return s.sendSitemap(c, sm)
}

// GetTagSitemap handles GET /sitemap-tags.xml. Only tags with at least one
// published post appear; each points at its filtered listing.
func (s *Server) GetTagSitemap(c *fiber.Ctx) error {
	tags, err := s.tagRepo.ListWithPublishedCounts(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}

	sm := sitemap.New()
	for _, tag := range tags {
		sm.Add(&sitemap.URL{
			Loc:        s.config.SiteURL + "/api/posts?tag=" + tag.Slug,
			ChangeFreq: sitemap.Weekly,
			Priority:   tagSitemapPriority,
		})
	}
	return s.sendSitemap(c, sm)
}

func (s *Server) sendSitemap(c *fiber.Ctx, sm io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		return s.respondServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.Send(buf.Bytes())
}
