// Package seed provides database seeding utilities for development and testing.
package seed

import (
	_ "embed"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed tags.yml
var tagFixtures []byte

// Options configuration for the seeder
type Options struct {
	NumAuthors  int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with demo content.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed populates the database with demo authors, tags, posts and comments.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d authors and %d posts...", opts.NumAuthors, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("warning: could not clear all existing data, continuing anyway")
		}
	}

	authors, err := s.createAuthors(opts.NumAuthors)
	if err != nil {
		return fmt.Errorf("failed to create authors: %w", err)
	}
	log.Printf("created %d authors", len(authors))

	tags, err := s.createTags()
	if err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}
	log.Printf("created %d tags", len(tags))

	posts, err := s.createPosts(authors, tags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	created, err := s.createComments(posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", created)

	return nil
}

// ClearAll removes all seeded rows, children first.
func (s *Seeder) ClearAll() error {
	tables := []string{"comments", "post_tags", "posts", "tags", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) createAuthors(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Demo-Password-123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	authors := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i),
			Email:    fmt.Sprintf("author%d@%s", i, gofakeit.DomainName()),
			Password: string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		authors = append(authors, user)
	}
	return authors, nil
}

type tagFixture struct {
	Tags []struct {
		Name string `yaml:"name"`
		Slug string `yaml:"slug"`
	} `yaml:"tags"`
}

func (s *Seeder) createTags() ([]models.Tag, error) {
	var fixture tagFixture
	if err := yaml.Unmarshal(tagFixtures, &fixture); err != nil {
		return nil, fmt.Errorf("parsing tag fixtures: %w", err)
	}

	tags := make([]models.Tag, 0, len(fixture.Tags))
	for _, t := range fixture.Tags {
		tag := models.Tag{Name: t.Name, Slug: t.Slug}
		if err := s.db.Where("slug = ?", tag.Slug).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *Seeder) createPosts(authors []*models.User, tags []models.Tag, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := authors[s.rand.Intn(len(authors))]

		title := strings.TrimSuffix(gofakeit.Sentence(6), ".")
		// The index keeps slugs unique even when titles repeat on a day.
		slug := validation.Slugify(fmt.Sprintf("%s-%d", title, i))

		body := fmt.Sprintf("## %s\n\n%s\n\n%s\n",
			gofakeit.Sentence(4),
			gofakeit.Paragraph(2, 4, 12, "\n\n"),
			gofakeit.Paragraph(1, 3, 10, "\n\n"))

		daysBack := s.rand.Intn(365)
		publish := time.Now().UTC().Add(-time.Duration(daysBack) * 24 * time.Hour)

		status := models.StatusPublished
		if s.rand.Intn(10) < 2 {
			status = models.StatusDraft
		}

		post := &models.Post{
			Title:   title,
			Slug:    slug,
			Body:    body,
			UserID:  author.ID,
			Status:  status,
			Publish: publish,
			Tags:    s.pickTags(tags),
		}
		if err := s.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) pickTags(tags []models.Tag) []models.Tag {
	count := 1 + s.rand.Intn(3)
	picked := make([]models.Tag, 0, count)
	seen := make(map[uint]struct{}, count)
	for len(picked) < count {
		tag := tags[s.rand.Intn(len(tags))]
		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		picked = append(picked, tag)
	}
	return picked
}

func (s *Seeder) createComments(posts []*models.Post) (int, error) {
	created := 0
	for _, post := range posts {
		if !post.Published() {
			continue
		}
		for i := 0; i < s.rand.Intn(6); i++ {
			comment := &models.Comment{
				PostID: post.ID,
				Name:   gofakeit.Name(),
				Email:  gofakeit.Email(),
				Body:   gofakeit.Sentence(12),
				Active: true,
			}
			comment.CreatedAt = post.Publish.Add(time.Duration(1+s.rand.Intn(72)) * time.Hour)
			if err := s.db.Create(comment).Error; err != nil {
				return created, err
			}
			// A few comments end up hidden, as if moderated away. The column
			// default is true so the flag is flipped in a follow-up update.
			if s.rand.Intn(10) == 0 {
				if err := s.db.Model(comment).Update("active", false).Error; err != nil {
					return created, err
				}
			}
			created++
		}
	}
	return created, nil
}
