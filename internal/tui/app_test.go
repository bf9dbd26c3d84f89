package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelfdev/bookshelf/internal/domain"
	"github.com/bookshelfdev/bookshelf/internal/library"
	"github.com/bookshelfdev/bookshelf/internal/log"
	"github.com/bookshelfdev/bookshelf/internal/store"
)

// stubCatalog is a canned-response domain.CatalogClient.
type stubCatalog struct {
	searchResults []domain.Book
	isbnResult    domain.Book
	isbnErr       error

	gotQuery string
	gotISBN  string
}

func (s *stubCatalog) Search(ctx context.Context, query string) ([]domain.Book, error) {
	s.gotQuery = query
	return s.searchResults, nil
}

func (s *stubCatalog) SearchISBN(ctx context.Context, isbn string) (domain.Book, error) {
	s.gotISBN = isbn
	return s.isbnResult, s.isbnErr
}

func (s *stubCatalog) FetchSample(ctx context.Context) ([]domain.Book, error) {
	return nil, nil
}

func newTestModel(t *testing.T, catalog *stubCatalog) Model {
	t.Helper()
	st, err := store.Open("", true, log.NullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewModel(library.NewService(catalog, st, log.NullLogger()))
}

func TestStartSearch_FreeTextQueriesCatalog(t *testing.T) {
	catalog := &stubCatalog{searchResults: []domain.Book{{ID: "vol1", Title: "Dune"}}}
	m := newTestModel(t, catalog)

	_, cmd := m.startSearch("dune")
	require.NotNil(t, cmd)

	msg, ok := cmd().(SearchResultsMsg)
	require.True(t, ok)
	assert.Equal(t, "dune", msg.Query)
	assert.Equal(t, "dune", catalog.gotQuery)
	require.Len(t, msg.Results, 1)
	assert.Equal(t, "Dune", msg.Results[0].Title)
}

func TestStartSearch_ISBNPrefixUsesLookup(t *testing.T) {
	catalog := &stubCatalog{isbnResult: domain.Book{ID: "vol1", Title: "Dune"}}
	m := newTestModel(t, catalog)

	_, cmd := m.startSearch("isbn:9780441172719")
	require.NotNil(t, cmd)

	msg, ok := cmd().(SearchResultsMsg)
	require.True(t, ok)
	assert.Equal(t, "isbn:9780441172719", msg.Query, "results stay tagged with the typed query")
	assert.Equal(t, "9780441172719", catalog.gotISBN, "the prefix is stripped before lookup")
	assert.Empty(t, catalog.gotQuery, "no free-text search is issued")
	require.Len(t, msg.Results, 1)
	assert.Equal(t, "Dune", msg.Results[0].Title)
}

func TestStartSearch_ISBNMissShowsEmptyResults(t *testing.T) {
	catalog := &stubCatalog{isbnErr: domain.ErrBookNotFound}
	m := newTestModel(t, catalog)

	_, cmd := m.startSearch("isbn:0000000000")
	require.NotNil(t, cmd)

	msg, ok := cmd().(SearchResultsMsg)
	require.True(t, ok, "a miss is an empty result set, not an error")
	assert.Equal(t, "isbn:0000000000", msg.Query)
	assert.Empty(t, msg.Results)
}

func TestUpdate_HistoryShrinkClampsCursor(t *testing.T) {
	m := newTestModel(t, &stubCatalog{})
	m.view = viewSearch
	m.history = []string{"dune", "hobbit", "hyperion"}
	m.cursor = 2

	updated, _ := m.Update(HistoryLoadedMsg{Queries: []string{"dune", "hobbit"}})
	got := updated.(Model)
	assert.Equal(t, 1, got.cursor, "cursor stays on the last remaining entry")

	updated, _ = got.Update(HistoryLoadedMsg{Queries: nil})
	got = updated.(Model)
	assert.Equal(t, 0, got.cursor)
}

func TestUpdate_StaleSearchResultsDropped(t *testing.T) {
	m := newTestModel(t, &stubCatalog{})
	m.lastQuery = "hyperion"

	updated, _ := m.Update(SearchResultsMsg{
		Results: []library.AnnotatedBook{{Book: domain.Book{ID: "vol1", Title: "Dune"}}},
		Query:   "dune",
	})
	got := updated.(Model)
	assert.Empty(t, got.results, "results for a superseded query are ignored")

	updated, _ = got.Update(SearchResultsMsg{
		Results: []library.AnnotatedBook{{Book: domain.Book{ID: "vol2", Title: "Hyperion"}}},
		Query:   "hyperion",
	})
	got = updated.(Model)
	require.Len(t, got.results, 1)
	assert.Equal(t, "Hyperion", got.results[0].Title)
}
