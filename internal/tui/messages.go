package tui

import (
	"github.com/bookshelfdev/bookshelf/internal/domain"
	"github.com/bookshelfdev/bookshelf/internal/library"
)

// ErrMsg carries an operation failure to the update loop.
type ErrMsg struct {
	Err     error
	Context string
}

// SampleLoadedMsg delivers the home screen sample.
type SampleLoadedMsg struct {
	Books []library.AnnotatedBook
}

// SearchResultsMsg delivers catalog results for Query. Results for a
// query that is no longer current are dropped by the update loop.
type SearchResultsMsg struct {
	Results []library.AnnotatedBook
	Query   string
}

// ShelfLoadedMsg delivers the library shelf listing.
type ShelfLoadedMsg struct {
	Books []domain.LibraryBook
}

// HistoryLoadedMsg delivers the saved search history.
type HistoryLoadedMsg struct {
	Queries []string
}

// BookSavedMsg signals a completed add or edit.
type BookSavedMsg struct {
	Title string
	Added bool
}

// BookRemovedMsg signals a completed removal.
type BookRemovedMsg struct {
	ID string
}

// StatusClearMsg clears the transient status line.
type StatusClearMsg struct{}
