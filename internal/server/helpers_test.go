package server

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeSender records sent mail on a channel so tests can wait for the
// fire-and-forget delivery goroutine.
type fakeSender struct {
	sent chan sentMail
}

type sentMail struct {
	Subject string
	Body    string
	To      []string
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(chan sentMail, 8)}
}

func (f *fakeSender) Send(subject, body string, to ...string) error {
	f.sent <- sentMail{Subject: subject, Body: body, To: to}
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer wires a Server against an in-memory database, no Redis, and
// a fake mail sender, with all routes registered.
func newTestServer(t *testing.T) (*Server, *fiber.App, *fakeSender) {
	t.Helper()

	db := setupTestDB(t)
	cfg := &config.Config{
		Port:      "8080",
		Env:       "test",
		SiteName:  "Inkwell",
		SiteURL:   "http://example.com",
		PageSize:  3,
		JWTSecret: "test-secret-key-for-handler-tests",
	}

	sender := newFakeSender()
	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		tagRepo:     repository.NewTagRepository(db),
		sender:      sender,
	}
	s.postService = service.NewPostService(s.postRepo, s.tagRepo, s.commentRepo, cfg.PageSize)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.shareService = service.NewShareService(s.postRepo, sender, cfg.SiteURL)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, sender
}

func createTestAuthor(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	return user
}

// createTestPost inserts a post published at noon UTC on the given day.
func createTestPost(t *testing.T, db *gorm.DB, author *models.User, title, slug, status string, publish time.Time, tags ...models.Tag) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:   title,
		Slug:    slug,
		Body:    "Body of " + title,
		UserID:  author.ID,
		Status:  status,
		Publish: publish,
		Tags:    tags,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func createTestTag(t *testing.T, db *gorm.DB, slug, name string) models.Tag {
	t.Helper()
	tag := models.Tag{Slug: slug, Name: name}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("create tag %q: %v", slug, err)
	}
	return tag
}

func noon(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		t.Fatalf("decode body %s: %v", raw, err)
	}
}
