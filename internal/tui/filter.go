package tui

import (
	"github.com/sahilm/fuzzy"

	"github.com/bookshelfdev/bookshelf/internal/library"
)

// bookSource adapts a loaded result list to fuzzy.Source so the quick
// filter can match against title and author together.
type bookSource []library.AnnotatedBook

func (s bookSource) String(i int) string {
	return s[i].Title + " " + s[i].AuthorLine()
}

func (s bookSource) Len() int { return len(s) }

// filterBooks narrows books to those fuzzy-matching pattern, best
// matches first. An empty pattern returns books unchanged.
func filterBooks(books []library.AnnotatedBook, pattern string) []library.AnnotatedBook {
	if pattern == "" {
		return books
	}

	matches := fuzzy.FindFrom(pattern, bookSource(books))
	out := make([]library.AnnotatedBook, 0, len(matches))
	for _, m := range matches {
		out = append(out, books[m.Index])
	}
	return out
}
