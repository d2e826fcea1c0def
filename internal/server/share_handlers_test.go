package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharePost(t *testing.T) {
	s, app, sender := newTestServer(t)
	author := createTestAuthor(t, s.db, "author")
	post := createTestPost(t, s.db, author, "Worth reading", "worth-reading",
		models.StatusPublished, noon(2025, time.May, 10))

	req := postJSON(t, fmt.Sprintf("/api/posts/%d/share", post.ID), map[string]any{
		"name":     "Alex",
		"email":    "alex@example.com",
		"to":       []string{"friend@example.com"},
		"comments": "You will like this one",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Sent bool `json:"sent"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Sent)

	select {
	case mail := <-sender.sent:
		assert.Equal(t, []string{"friend@example.com"}, mail.To)
		assert.Contains(t, mail.Subject, "Alex (alex@example.com) recommends you read")
		assert.Contains(t, mail.Subject, "Worth reading")
		assert.Contains(t, mail.Body, "http://example.com/api/posts/2025/05/10/worth-reading")
		assert.Contains(t, mail.Body, "Alex's comments: You will like this one")
	case <-time.After(2 * time.Second):
		t.Fatal("share email was never sent")
	}
}

func TestSharePostValidation(t *testing.T) {
	s, app, sender := newTestServer(t)
	author := createTestAuthor(t, s.db, "author")
	post := createTestPost(t, s.db, author, "Worth reading", "worth-reading",
		models.StatusPublished, noon(2025, time.May, 10))

	req := postJSON(t, fmt.Sprintf("/api/posts/%d/share", post.ID), map[string]any{
		"name":  "Alex",
		"email": "alex@example.com",
		"to":    []string{"not-an-email"},
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Fields)

	select {
	case <-sender.sent:
		t.Fatal("no email should be sent for an invalid form")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSharePostDraft(t *testing.T) {
	s, app, _ := newTestServer(t)
	author := createTestAuthor(t, s.db, "author")
	post := createTestPost(t, s.db, author, "Secret", "secret",
		models.StatusDraft, noon(2025, time.May, 10))

	req := postJSON(t, fmt.Sprintf("/api/posts/%d/share", post.ID), map[string]any{
		"name":  "Alex",
		"email": "alex@example.com",
		"to":    []string{"friend@example.com"},
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
