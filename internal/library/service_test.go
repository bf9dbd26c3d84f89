package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelfdev/bookshelf/internal/domain"
	"github.com/bookshelfdev/bookshelf/internal/log"
	"github.com/bookshelfdev/bookshelf/internal/store"
)

// fakeCatalog is a canned-response domain.CatalogClient.
type fakeCatalog struct {
	searchResults []domain.Book
	searchErr     error
	isbnResult    domain.Book
	isbnErr       error
	sampleResults []domain.Book
	sampleErr     error

	lastQuery string
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]domain.Book, error) {
	f.lastQuery = query
	return f.searchResults, f.searchErr
}

func (f *fakeCatalog) SearchISBN(ctx context.Context, isbn string) (domain.Book, error) {
	return f.isbnResult, f.isbnErr
}

func (f *fakeCatalog) FetchSample(ctx context.Context) ([]domain.Book, error) {
	return f.sampleResults, f.sampleErr
}

func newTestService(t *testing.T, catalog *fakeCatalog) *Service {
	t.Helper()
	st, err := store.Open("", true, log.NullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewService(catalog, st, log.NullLogger())
}

func catalogBook(id, title string) domain.Book {
	return domain.Book{ID: id, Title: title, Authors: []string{"Some Author"}}
}

func TestSearch_AnnotatesLibraryMembership(t *testing.T) {
	catalog := &fakeCatalog{searchResults: []domain.Book{
		catalogBook("owned", "Dune"),
		catalogBook("new", "Hyperion"),
	}}
	svc := newTestService(t, catalog)

	require.NoError(t, svc.AddToLibrary(catalogBook("owned", "Dune"), domain.StatusFinished, domain.FormatPaperback, 5, ""))

	results, err := svc.Search(context.Background(), "science fiction")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].InLibrary)
	assert.False(t, results[1].InLibrary)
}

func TestSearch_RecordsHistory(t *testing.T) {
	catalog := &fakeCatalog{searchResults: []domain.Book{catalogBook("vol1", "Dune")}}
	svc := newTestService(t, catalog)

	_, err := svc.Search(context.Background(), "Dune Messiah")
	require.NoError(t, err)

	assert.Equal(t, "Dune Messiah", catalog.lastQuery, "catalog receives the raw query")
	assert.Equal(t, []string{"dune messiah"}, svc.History(), "history stores the folded form")
}

func TestSearch_FailedSearchStillRecorded(t *testing.T) {
	catalog := &fakeCatalog{searchErr: domain.ErrCatalogUnreachable}
	svc := newTestService(t, catalog)

	_, err := svc.Search(context.Background(), "dune")
	assert.ErrorIs(t, err, domain.ErrCatalogUnreachable)
	assert.Equal(t, []string{"dune"}, svc.History(), "the query is recorded at submit time, not on success")
}

func TestLookupISBN(t *testing.T) {
	catalog := &fakeCatalog{isbnResult: catalogBook("vol1", "Dune")}
	svc := newTestService(t, catalog)

	book, err := svc.LookupISBN(context.Background(), "9780441172719")
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.False(t, book.InLibrary)

	require.NoError(t, svc.AddToLibrary(book.Book, domain.StatusToBeRead, domain.FormatDigital, 0, ""))

	book, err = svc.LookupISBN(context.Background(), "9780441172719")
	require.NoError(t, err)
	assert.True(t, book.InLibrary)
}

func TestLoadSample(t *testing.T) {
	catalog := &fakeCatalog{sampleResults: []domain.Book{
		catalogBook("vol1", "Dune"),
		catalogBook("vol2", "Hyperion"),
	}}
	svc := newTestService(t, catalog)

	books, err := svc.LoadSample(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestLoadSample_PropagatesExhaustion(t *testing.T) {
	catalog := &fakeCatalog{sampleErr: domain.ErrSampleExhausted}
	svc := newTestService(t, catalog)

	_, err := svc.LoadSample(context.Background())
	assert.ErrorIs(t, err, domain.ErrSampleExhausted)
}

func TestAddToLibrary_Lifecycle(t *testing.T) {
	svc := newTestService(t, &fakeCatalog{})
	book := catalogBook("vol1", "Dune")

	require.NoError(t, svc.AddToLibrary(book, domain.StatusCurrentlyReading, domain.FormatHardcover, 4, "so far so good"))
	assert.True(t, svc.InLibrary("vol1"))

	shelf := svc.Shelf(ShelfOptions{})
	require.Len(t, shelf, 1)
	entry := shelf[0]
	assert.Equal(t, domain.StatusCurrentlyReading, entry.Status)
	assert.Equal(t, domain.FormatHardcover, entry.Format)
	assert.Equal(t, 4, entry.Rating)
	assert.False(t, entry.DateAdded.IsZero())

	entry.Status = domain.StatusFinished
	entry.Rating = 5
	require.NoError(t, svc.EditBook(entry))

	shelf = svc.Shelf(ShelfOptions{})
	require.Len(t, shelf, 1)
	assert.Equal(t, domain.StatusFinished, shelf[0].Status)
	assert.Equal(t, 5, shelf[0].Rating)

	require.NoError(t, svc.RemoveFromLibrary("vol1"))
	assert.False(t, svc.InLibrary("vol1"))
	assert.Empty(t, svc.Shelf(ShelfOptions{}))
}

func TestAddToLibrary_RejectsDuplicate(t *testing.T) {
	svc := newTestService(t, &fakeCatalog{})
	book := catalogBook("vol1", "Dune")

	require.NoError(t, svc.AddToLibrary(book, domain.StatusToBeRead, domain.FormatDigital, 0, ""))
	err := svc.AddToLibrary(book, domain.StatusFinished, domain.FormatHardcover, 5, "")
	assert.ErrorIs(t, err, domain.ErrDuplicateBook)
}

func TestAddToLibrary_RejectsBadRating(t *testing.T) {
	svc := newTestService(t, &fakeCatalog{})

	err := svc.AddToLibrary(catalogBook("vol1", "Dune"), domain.StatusToBeRead, domain.FormatDigital, 6, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
	assert.False(t, svc.InLibrary("vol1"))
}

func TestForgetSearch(t *testing.T) {
	catalog := &fakeCatalog{searchResults: []domain.Book{catalogBook("vol1", "Dune")}}
	svc := newTestService(t, catalog)

	_, err := svc.Search(context.Background(), "dune")
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "hobbit")
	require.NoError(t, err)

	require.NoError(t, svc.ForgetSearch("dune"))
	assert.Equal(t, []string{"hobbit"}, svc.History())
}

func TestSession(t *testing.T) {
	svc := newTestService(t, &fakeCatalog{})

	assert.False(t, svc.HasSession())
	require.NoError(t, svc.SaveProfile(domain.Profile{Name: "Frodo"}))
	assert.True(t, svc.HasSession())
	require.NoError(t, svc.EndSession())
	assert.False(t, svc.HasSession())
}
