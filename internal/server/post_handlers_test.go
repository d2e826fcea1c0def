package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postPageResponse struct {
	Posts []models.Post `json:"posts"`
	Page  int           `json:"page"`
	Total int           `json:"total_pages"`
	Tag   *models.Tag   `json:"tag"`
}

// seedListing creates seven published posts on consecutive days plus one
// draft, so with a page size of three the listing spans three pages.
func seedListing(t *testing.T, s *Server) {
	t.Helper()
	author := createTestAuthor(t, s.db, "lister")
	for i := 1; i <= 7; i++ {
		createTestPost(t, s.db, author,
			fmt.Sprintf("Post %d", i), fmt.Sprintf("post-%d", i),
			models.StatusPublished, noon(2025, time.March, i))
	}
	createTestPost(t, s.db, author, "Hidden draft", "hidden-draft",
		models.StatusDraft, noon(2025, time.March, 8))
}

func TestGetPostsPagination(t *testing.T) {
	s, app, _ := newTestServer(t)
	seedListing(t, s)

	tests := []struct {
		name          string
		url           string
		expectedPage  int
		expectedCount int
		firstTitle    string
	}{
		{
			name:          "default is first page, newest first",
			url:           "/api/posts",
			expectedPage:  1,
			expectedCount: 3,
			firstTitle:    "Post 7",
		},
		{
			name:          "explicit middle page",
			url:           "/api/posts?page=2",
			expectedPage:  2,
			expectedCount: 3,
			firstTitle:    "Post 4",
		},
		{
			name:          "non-integer page falls back to first page",
			url:           "/api/posts?page=abc",
			expectedPage:  1,
			expectedCount: 3,
			firstTitle:    "Post 7",
		},
		{
			name:          "out-of-range page falls back to last page",
			url:           "/api/posts?page=10",
			expectedPage:  3,
			expectedCount: 1,
			firstTitle:    "Post 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.url, nil))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var page postPageResponse
			decodeBody(t, resp, &page)
			assert.Equal(t, tt.expectedPage, page.Page)
			assert.Equal(t, 3, page.Total)
			require.Len(t, page.Posts, tt.expectedCount)
			assert.Equal(t, tt.firstTitle, page.Posts[0].Title)
		})
	}
}

func TestGetPostsExcludesDrafts(t *testing.T) {
	s, app, _ := newTestServer(t)
	seedListing(t, s)

	for pageNum := 1; pageNum <= 3; pageNum++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/api/posts?page=%d", pageNum), nil))
		require.NoError(t, err)

		var page postPageResponse
		decodeBody(t, resp, &page)
		for _, post := range page.Posts {
			assert.NotEqual(t, "Hidden draft", post.Title)
		}
	}
}

func TestGetPostsTagFilter(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "tagger")
	golang := createTestTag(t, s.db, "go", "Go")

	createTestPost(t, s.db, author, "Tagged", "tagged",
		models.StatusPublished, noon(2025, time.April, 1), golang)
	createTestPost(t, s.db, author, "Untagged", "untagged",
		models.StatusPublished, noon(2025, time.April, 2))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?tag=go", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page postPageResponse
	decodeBody(t, resp, &page)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Tagged", page.Posts[0].Title)
	require.NotNil(t, page.Tag)
	assert.Equal(t, "go", page.Tag.Slug)
}

func TestGetPostsUnknownTag(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?tag=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetArchive(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "archivist")
	createTestPost(t, s.db, author, "March post", "march-post",
		models.StatusPublished, noon(2025, time.March, 15))
	createTestPost(t, s.db, author, "April post", "april-post",
		models.StatusPublished, noon(2025, time.April, 2))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/archive/2025/03", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page postPageResponse
	decodeBody(t, resp, &page)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "March post", page.Posts[0].Title)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/archive/2025/13", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type postDetailResponse struct {
	Post     models.Post      `json:"post"`
	Comments []models.Comment `json:"comments"`
	Related  []models.Post    `json:"related"`
}

func TestGetPostDetail(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "author")
	post := createTestPost(t, s.db, author, "Visible", "visible",
		models.StatusPublished, noon(2025, time.May, 20))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/2025/05/20/visible", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail postDetailResponse
	decodeBody(t, resp, &detail)
	assert.Equal(t, post.ID, detail.Post.ID)
	assert.Equal(t, "Visible", detail.Post.Title)
}

func TestGetPostDetailWrongDay(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "author")
	createTestPost(t, s.db, author, "Visible", "visible",
		models.StatusPublished, noon(2025, time.May, 20))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/2025/05/21/visible", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPostDetailDraftHidden(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "author")
	createTestPost(t, s.db, author, "Secret", "secret",
		models.StatusDraft, noon(2025, time.May, 20))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/2025/05/20/secret", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPostDetailRelated(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "author")
	x := createTestTag(t, s.db, "x", "X")
	y := createTestTag(t, s.db, "y", "Y")
	z := createTestTag(t, s.db, "z", "Z")

	createTestPost(t, s.db, author, "Anchor", "anchor",
		models.StatusPublished, noon(2025, time.June, 1), x, y)
	createTestPost(t, s.db, author, "Shares X", "shares-x",
		models.StatusPublished, noon(2025, time.June, 3), x)
	createTestPost(t, s.db, author, "Shares Y and Z", "shares-y-z",
		models.StatusPublished, noon(2025, time.June, 2), y, z)
	createTestPost(t, s.db, author, "Unrelated", "unrelated",
		models.StatusPublished, noon(2025, time.June, 4), z)
	createTestPost(t, s.db, author, "Draft sibling", "draft-sibling",
		models.StatusDraft, noon(2025, time.June, 5), x, y)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/2025/06/01/anchor", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail postDetailResponse
	decodeBody(t, resp, &detail)

	// Both share one tag with the anchor; the tie breaks on newer publish.
	require.Len(t, detail.Related, 2)
	assert.Equal(t, "Shares X", detail.Related[0].Title)
	assert.Equal(t, "Shares Y and Z", detail.Related[1].Title)
}

type searchResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Post  models.Post `json:"post"`
		Score float64     `json:"score"`
	} `json:"results"`
}

func TestSearchPosts(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "searcher")
	createTestPost(t, s.db, author, "Writing Go services", "writing-go-services",
		models.StatusPublished, noon(2025, time.July, 1))
	createTestPost(t, s.db, author, "Baking sourdough bread", "baking-sourdough",
		models.StatusPublished, noon(2025, time.July, 2))
	createTestPost(t, s.db, author, "Writing Go services privately", "draft-go",
		models.StatusDraft, noon(2025, time.July, 3))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/posts/search?q=Writing+Go+services", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result searchResponse
	decodeBody(t, resp, &result)
	require.NotEmpty(t, result.Results)
	assert.Equal(t, "Writing Go services", result.Results[0].Post.Title)
	for _, r := range result.Results {
		assert.NotEqual(t, "Baking sourdough bread", r.Post.Title)
		assert.NotEqual(t, "Writing Go services privately", r.Post.Title)
	}
}

func TestSearchPostsBlankQuery(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "searcher")
	createTestPost(t, s.db, author, "Some post", "some-post",
		models.StatusPublished, noon(2025, time.July, 1))

	for _, q := range []string{"", "%20%20%20", "%09"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/search?q="+q, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result searchResponse
		decodeBody(t, resp, &result)
		assert.Empty(t, result.Results)
	}
}

func TestGetWidgets(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "widgets")
	quiet := createTestPost(t, s.db, author, "Quiet", "quiet",
		models.StatusPublished, noon(2025, time.August, 2))
	busy := createTestPost(t, s.db, author, "Busy", "busy",
		models.StatusPublished, noon(2025, time.August, 1))
	_ = quiet

	for i := 0; i < 3; i++ {
		comment := &models.Comment{
			PostID: busy.ID,
			Name:   "Reader",
			Email:  "reader@example.com",
			Body:   "Nice one",
			Active: true,
		}
		require.NoError(t, s.db.Create(comment).Error)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/widgets", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var widgets struct {
		TotalPosts    int64         `json:"total_posts"`
		Latest        []models.Post `json:"latest"`
		MostCommented []models.Post `json:"most_commented"`
	}
	decodeBody(t, resp, &widgets)
	assert.Equal(t, int64(2), widgets.TotalPosts)
	require.NotEmpty(t, widgets.Latest)
	assert.Equal(t, "Quiet", widgets.Latest[0].Title)
	require.NotEmpty(t, widgets.MostCommented)
	assert.Equal(t, "Busy", widgets.MostCommented[0].Title)
}

func TestGetTags(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "tagger")
	golang := createTestTag(t, s.db, "go", "Go")
	empty := createTestTag(t, s.db, "empty", "Empty")
	_ = empty

	createTestPost(t, s.db, author, "Tagged", "tagged",
		models.StatusPublished, noon(2025, time.April, 1), golang)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tags", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Tags []models.Tag `json:"tags"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Tags, 1)
	assert.Equal(t, "go", body.Tags[0].Slug)
	assert.Equal(t, int64(1), body.Tags[0].PostCount)
}
