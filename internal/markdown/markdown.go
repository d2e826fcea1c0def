// Package markdown renders post bodies to HTML and produces the truncated
// descriptions used by the RSS feed.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

var renderer = goldmark.New()

// Render converts Markdown source to HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Void elements never take a closing tag.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// TruncateWords cuts rendered HTML after limit words, closing any markup
// left open at the cut point and appending an ellipsis. Input shorter than
// the limit is returned unchanged.
func TruncateWords(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	var open []string
	words := 0
	truncated := false

loop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			break loop
		case html.StartTagToken:
			tok := z.Token()
			b.WriteString(tok.String())
			if _, void := voidElements[tok.Data]; !void {
				open = append(open, tok.Data)
			}
		case html.EndTagToken:
			tok := z.Token()
			b.WriteString(tok.String())
			if len(open) > 0 && open[len(open)-1] == tok.Data {
				open = open[:len(open)-1]
			}
		case html.TextToken:
			text := z.Token().Data
			fields := strings.Fields(text)
			if words+len(fields) <= limit {
				words += len(fields)
				b.WriteString(html.EscapeString(text))
				continue
			}

			kept := fields[:limit-words]
			if strings.IndexFunc(text, func(r rune) bool { return r == ' ' || r == '\n' || r == '\t' }) == 0 {
				b.WriteByte(' ')
			}
			b.WriteString(html.EscapeString(strings.Join(kept, " ")))
			b.WriteString("…")
			truncated = true
			break loop
		default:
			b.WriteString(z.Token().String())
		}
	}

	if !truncated {
		return s
	}

	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString("</" + open[i] + ">")
	}
	return b.String()
}
