// Package search ranks posts against a free-text query using trigram
// similarity. Matching runs in-process over the published candidate set so
// results are deterministic and identical across storage backends; the
// trigram semantics follow Postgres pg_trgm (lowercased words padded to
// length, scored by set overlap).
package search

import (
	"sort"
	"strings"
	"unicode"

	"inkwell/internal/models"
)

// MinScore is the relevance floor: candidates scoring at or below it are
// dropped from the result set.
const MinScore = 0.1

// Result pairs a post with its combined similarity score.
type Result struct {
	Post  *models.Post `json:"post"`
	Score float64      `json:"score"`
}

// Rank scores candidates against query and returns them ordered by combined
// title+body similarity, highest first, ties broken by ascending post ID so
// the order is stable. A query that is empty after trimming yields an empty
// result set; that is a valid outcome, not an error. Callers must pass only
// published posts.
func Rank(query string, candidates []*models.Post) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}
	}

	results := make([]Result, 0, len(candidates))
	for _, post := range candidates {
		score := Similarity(post.Title, query) + Similarity(post.Body, query)
		if score > MinScore {
			results = append(results, Result{Post: post, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Post.ID < results[j].Post.ID
	})

	return results
}

// Similarity returns the trigram similarity of two strings in [0, 1]:
// the size of the trigram set intersection divided by the size of the union.
func Similarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}

	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

// trigrams extracts the pg_trgm-style trigram set: the input is lowercased
// and split into alphanumeric words, each word is padded with two leading
// blanks and one trailing blank, and every 3-rune window is collected.
func trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range splitWords(s) {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
