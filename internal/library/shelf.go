package library

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/bookshelfdev/bookshelf/internal/domain"
)

// SortOrder selects the shelf's DateAdded ordering.
type SortOrder int

const (
	SortNewestFirst SortOrder = iota
	SortOldestFirst
)

// ShelfOptions are pure in-memory transforms over the loaded shelf.
// Changing them costs no extra store I/O.
type ShelfOptions struct {
	// TitleFilter keeps entries whose title contains the substring,
	// case-insensitively. Empty keeps everything.
	TitleFilter string

	// Status keeps entries with the exact status. The zero value keeps
	// all statuses.
	Status domain.ReadingStatus

	Order SortOrder
}

// Shelf returns the library filtered and ordered per opts.
func (s *Service) Shelf(opts ShelfOptions) []domain.LibraryBook {
	books := s.store.ListBooks() // already newest-first

	books = applyShelfFilters(books, opts)

	if opts.Order == SortOldestFirst {
		for i, j := 0, len(books)-1; i < j; i, j = i+1, j-1 {
			books[i], books[j] = books[j], books[i]
		}
	}

	return books
}

func applyShelfFilters(books []domain.LibraryBook, opts ShelfOptions) []domain.LibraryBook {
	needle := strings.ToLower(strings.TrimSpace(opts.TitleFilter))
	if needle == "" && opts.Status == "" {
		return books
	}

	filtered := make([]domain.LibraryBook, 0, len(books))
	for _, b := range books {
		if opts.Status != "" && b.Status != opts.Status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(b.Book.Title), needle) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// SearchShelf fuzzy-matches shelf titles against the query and returns
// entries ranked best-match-first. Looser than the substring filter:
// "hobit" still finds The Hobbit.
func (s *Service) SearchShelf(query string) []domain.LibraryBook {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	books := s.store.ListBooks()
	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = b.Book.Title
	}

	matches := fuzzy.RankFindNormalizedFold(query, titles)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	results := make([]domain.LibraryBook, 0, len(matches))
	for _, m := range matches {
		results = append(results, books[m.OriginalIndex])
	}
	return results
}
