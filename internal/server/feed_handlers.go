package server

import (
	"time"

	"inkwell/internal/markdown"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/feeds"
)

// feedItemCount is the number of posts in the RSS feed.
const feedItemCount = 5

// feedDescriptionWords caps the rendered body excerpt in feed items.
const feedDescriptionWords = 30

// GetFeed handles GET /feed, the RSS feed of the latest published posts.
// Item descriptions are the Markdown body rendered to HTML and truncated.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	posts, err := s.postRepo.Latest(c.Context(), feedItemCount)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	feed := &feeds.Feed{
		Title:       s.config.SiteName,
		Link:        &feeds.Link{Href: s.config.SiteURL + "/api/posts"},
		Description: "New posts on " + s.config.SiteName,
		Created:     time.Now(),
	}

	for _, post := range posts {
		rendered, err := markdown.Render(post.Body)
		if err != nil {
			return s.respondServiceError(c, err)
		}

		item := &feeds.Item{
			Title:       post.Title,
			Link:        &feeds.Link{Href: s.config.SiteURL + post.PublicPath()},
			Description: markdown.TruncateWords(rendered, feedDescriptionWords),
			Created:     post.Publish,
			Updated:     post.UpdatedAt,
		}
		if post.User.Username != "" {
			item.Author = &feeds.Author{Name: post.User.Username}
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return s.respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/rss+xml; charset=utf-8")
	return c.SendString(rss)
}
