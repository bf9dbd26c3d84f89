package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bookshelfdev/bookshelf/internal/domain"
	"github.com/bookshelfdev/bookshelf/internal/library"
)

// Command factories for async operations

// LoadSampleCmd fetches the home screen sample from the catalog.
func LoadSampleCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		books, err := svc.LoadSample(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading sample"}
		}
		return SampleLoadedMsg{Books: books}
	}
}

// SearchCmd runs a catalog search and records it in history.
func SearchCmd(svc *library.Service, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		results, err := svc.Search(ctx, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching catalog"}
		}
		return SearchResultsMsg{Results: results, Query: query}
	}
}

// LookupISBNCmd resolves an ISBN to a single catalog result. A miss is
// delivered as an empty result set for query, not as an error, so the
// search screen shows its "no results" state.
func LookupISBNCmd(svc *library.Service, query, isbn string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		book, err := svc.LookupISBN(ctx, isbn)
		if err != nil {
			if errors.Is(err, domain.ErrBookNotFound) {
				return SearchResultsMsg{Query: query}
			}
			return ErrMsg{Err: err, Context: "looking up isbn"}
		}
		return SearchResultsMsg{Results: []library.AnnotatedBook{book}, Query: query}
	}
}

// LoadShelfCmd loads the library shelf with the given view options.
func LoadShelfCmd(svc *library.Service, opts library.ShelfOptions) tea.Cmd {
	return func() tea.Msg {
		return ShelfLoadedMsg{Books: svc.Shelf(opts)}
	}
}

// LoadHistoryCmd loads the saved search history.
func LoadHistoryCmd(svc *library.Service) tea.Cmd {
	return func() tea.Msg {
		return HistoryLoadedMsg{Queries: svc.History()}
	}
}

// AddBookCmd adds a catalog book to the library.
func AddBookCmd(svc *library.Service, book domain.Book, status domain.ReadingStatus, format domain.Format, rating int, review string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.AddToLibrary(book, status, format, rating, review); err != nil {
			return ErrMsg{Err: err, Context: "adding book"}
		}
		return BookSavedMsg{Title: book.Title, Added: true}
	}
}

// EditBookCmd saves changes to a library book.
func EditBookCmd(svc *library.Service, book domain.LibraryBook) tea.Cmd {
	return func() tea.Msg {
		if err := svc.EditBook(book); err != nil {
			return ErrMsg{Err: err, Context: "saving book"}
		}
		return BookSavedMsg{Title: book.Book.Title, Added: false}
	}
}

// RemoveBookCmd removes a book from the library.
func RemoveBookCmd(svc *library.Service, id string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.RemoveFromLibrary(id); err != nil {
			return ErrMsg{Err: err, Context: "removing book"}
		}
		return BookRemovedMsg{ID: id}
	}
}

// ForgetSearchCmd removes a query from the search history.
func ForgetSearchCmd(svc *library.Service, query string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.ForgetSearch(query); err != nil {
			return ErrMsg{Err: err, Context: "removing search"}
		}
		return HistoryLoadedMsg{Queries: svc.History()}
	}
}

// ClearStatusCmd clears the status line after a short delay.
func ClearStatusCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return StatusClearMsg{}
	})
}
