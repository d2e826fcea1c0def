package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	html, err := Render("# Heading\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Heading</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestTruncateWordsShortInputUnchanged(t *testing.T) {
	in := "<p>one two three</p>"
	assert.Equal(t, in, TruncateWords(in, 30))
}

func TestTruncateWordsCutsAndClosesTags(t *testing.T) {
	got := TruncateWords("<p>one two three four</p>", 3)
	assert.Equal(t, "<p>one two three…</p>", got)
}

func TestTruncateWordsNestedTags(t *testing.T) {
	in := "<ul><li>one two</li><li>three four five</li></ul>"
	got := TruncateWords(in, 3)
	assert.Equal(t, "<ul><li>one two</li><li>three…</li></ul>", got)
}

func TestTruncateWordsZeroLimit(t *testing.T) {
	assert.Equal(t, "", TruncateWords("<p>anything</p>", 0))
}

func TestTruncateWordsCountsAcrossElements(t *testing.T) {
	in := "<p>one two</p><p>three four</p>"
	got := TruncateWords(in, 3)
	assert.Equal(t, "<p>one two</p><p>three…</p>", got)
}

func TestRenderThenTruncate(t *testing.T) {
	source := "Intro paragraph with " + strings.Repeat("word ", 50)
	html, err := Render(source)
	require.NoError(t, err)

	short := TruncateWords(html, 10)
	assert.Contains(t, short, "…")
	assert.True(t, strings.HasSuffix(short, "</p>"))
	assert.Less(t, len(short), len(html))
}
