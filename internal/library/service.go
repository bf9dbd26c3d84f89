package library

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookshelfdev/bookshelf/internal/domain"
)

// AnnotatedBook pairs a catalog result with its library membership, so
// result lists can show an "already on your shelf" marker without a
// second lookup.
type AnnotatedBook struct {
	domain.Book
	InLibrary bool
}

// Service orchestrates catalog fetches and library mutations. Screens
// call it instead of touching the catalog client or store directly.
type Service struct {
	catalog domain.CatalogClient
	store   domain.Store
	logger  *slog.Logger
}

// NewService creates a new library service.
func NewService(catalog domain.CatalogClient, store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{catalog: catalog, store: store, logger: logger}
}

// Search records the query in the search history, runs the catalog
// search and annotates each result with library membership. The history
// write happens at submit time, before the fetch, so a search that
// fails against the catalog is still remembered. Catalog errors
// propagate untouched; a history write failure is logged and swallowed
// so a flaky disk never blocks search results.
func (s *Service) Search(ctx context.Context, query string) ([]AnnotatedBook, error) {
	if err := s.store.RecordSearch(query); err != nil {
		s.logger.Warn("failed to record search", "query", query, "error", err)
	}

	books, err := s.catalog.Search(ctx, query)
	if err != nil {
		s.logger.Error("search failed", "query", query, "error", err)
		return nil, err
	}

	s.logger.Debug("search complete", "query", query, "results", len(books))
	return s.annotate(books), nil
}

// LookupISBN resolves a scanned or typed ISBN to a single annotated
// book. Returns ErrBookNotFound when the catalog has no match.
func (s *Service) LookupISBN(ctx context.Context, isbn string) (AnnotatedBook, error) {
	book, err := s.catalog.SearchISBN(ctx, isbn)
	if err != nil {
		return AnnotatedBook{}, err
	}
	return AnnotatedBook{Book: book, InLibrary: s.store.ContainsBook(book.ID)}, nil
}

// LoadSample fetches the popular-books sample and annotates it.
// Propagates ErrSampleExhausted when every sampled subject came back
// thin.
func (s *Service) LoadSample(ctx context.Context) ([]AnnotatedBook, error) {
	books, err := s.catalog.FetchSample(ctx)
	if err != nil {
		s.logger.Error("sample load failed", "error", err)
		return nil, err
	}
	return s.annotate(books), nil
}

// AddToLibrary persists a new entry built from the catalog book and the
// user's choices. Adding a book already on the shelf is rejected rather
// than silently duplicated.
func (s *Service) AddToLibrary(book domain.Book, status domain.ReadingStatus, format domain.Format, rating int, review string) error {
	if s.store.ContainsBook(book.ID) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateBook, book.ID)
	}

	entry := domain.LibraryBook{
		ID:        book.ID,
		Book:      book,
		Status:    status,
		Format:    format,
		Rating:    rating,
		Review:    review,
		DateAdded: time.Now(),
	}
	return s.store.AddBook(entry)
}

// EditBook replaces a shelf entry's mutable fields. Any status is
// reachable from any other; there is no transition graph.
func (s *Service) EditBook(b domain.LibraryBook) error {
	return s.store.UpdateBook(b)
}

// RemoveFromLibrary deletes a shelf entry; removing an absent id is a
// no-op.
func (s *Service) RemoveFromLibrary(id string) error {
	return s.store.RemoveBook(id)
}

// InLibrary reports whether the book id is on the shelf.
func (s *Service) InLibrary(id string) bool {
	return s.store.ContainsBook(id)
}

// History returns past search queries, most recent first.
func (s *Service) History() []string {
	return s.store.SearchHistory()
}

// ForgetSearch removes one query from the history.
func (s *Service) ForgetSearch(query string) error {
	return s.store.RemoveSearch(query)
}

// HasSession reports whether a user profile record is present.
func (s *Service) HasSession() bool {
	_, ok := s.store.Profile()
	return ok
}

// SaveProfile stores the user profile, creating the local session.
func (s *Service) SaveProfile(p domain.Profile) error {
	return s.store.SaveProfile(p)
}

// EndSession clears the stored profile.
func (s *Service) EndSession() error {
	return s.store.ClearProfile()
}

// annotate flags each catalog result that is already on the shelf.
// Store read failures degrade to false inside the store, so annotation
// itself never fails.
func (s *Service) annotate(books []domain.Book) []AnnotatedBook {
	annotated := make([]AnnotatedBook, len(books))
	for i, b := range books {
		annotated[i] = AnnotatedBook{Book: b, InLibrary: s.store.ContainsBook(b.ID)}
	}
	return annotated
}
