package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelfdev/bookshelf/internal/domain"
)

// newShelfService seeds a service with a fixed shelf, oldest added first.
func newShelfService(t *testing.T) *Service {
	t.Helper()
	svc := newTestService(t, &fakeCatalog{})

	seed := []struct {
		id     string
		title  string
		status domain.ReadingStatus
	}{
		{"vol1", "The Hobbit", domain.StatusFinished},
		{"vol2", "The Fellowship of the Ring", domain.StatusFinished},
		{"vol3", "Dune", domain.StatusCurrentlyReading},
		{"vol4", "Dune Messiah", domain.StatusToBeRead},
	}
	for _, s := range seed {
		require.NoError(t, svc.AddToLibrary(
			domain.Book{ID: s.id, Title: s.title},
			s.status, domain.FormatPaperback, 0, "",
		))
		// AddToLibrary stamps DateAdded with time.Now; space the
		// entries out so ordering is deterministic.
		time.Sleep(2 * time.Millisecond)
	}
	return svc
}

func shelfIDs(books []domain.LibraryBook) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func TestShelf_DefaultNewestFirst(t *testing.T) {
	svc := newShelfService(t)

	books := svc.Shelf(ShelfOptions{})
	assert.Equal(t, []string{"vol4", "vol3", "vol2", "vol1"}, shelfIDs(books))
}

func TestShelf_OldestFirst(t *testing.T) {
	svc := newShelfService(t)

	books := svc.Shelf(ShelfOptions{Order: SortOldestFirst})
	assert.Equal(t, []string{"vol1", "vol2", "vol3", "vol4"}, shelfIDs(books))
}

func TestShelf_TitleFilterIsCaseInsensitiveSubstring(t *testing.T) {
	svc := newShelfService(t)

	books := svc.Shelf(ShelfOptions{TitleFilter: "dune"})
	assert.Equal(t, []string{"vol4", "vol3"}, shelfIDs(books))

	books = svc.Shelf(ShelfOptions{TitleFilter: "  RING  "})
	assert.Equal(t, []string{"vol2"}, shelfIDs(books))

	assert.Empty(t, svc.Shelf(ShelfOptions{TitleFilter: "nonexistent"}))
}

func TestShelf_StatusFilter(t *testing.T) {
	svc := newShelfService(t)

	books := svc.Shelf(ShelfOptions{Status: domain.StatusFinished})
	assert.Equal(t, []string{"vol2", "vol1"}, shelfIDs(books))

	books = svc.Shelf(ShelfOptions{Status: domain.StatusToBeRead})
	assert.Equal(t, []string{"vol4"}, shelfIDs(books))
}

func TestShelf_CombinedFilters(t *testing.T) {
	svc := newShelfService(t)

	books := svc.Shelf(ShelfOptions{
		TitleFilter: "the",
		Status:      domain.StatusFinished,
		Order:       SortOldestFirst,
	})
	assert.Equal(t, []string{"vol1", "vol2"}, shelfIDs(books))
}

func TestSearchShelf_ToleratesTypos(t *testing.T) {
	svc := newShelfService(t)

	books := svc.SearchShelf("hobit")
	require.NotEmpty(t, books)
	assert.Equal(t, "The Hobbit", books[0].Book.Title)
}

func TestSearchShelf_RanksCloserMatchesFirst(t *testing.T) {
	svc := newShelfService(t)

	books := svc.SearchShelf("dune")
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Book.Title)
	assert.Equal(t, "Dune Messiah", books[1].Book.Title)
}

func TestSearchShelf_EmptyQuery(t *testing.T) {
	svc := newShelfService(t)

	assert.Nil(t, svc.SearchShelf(""))
	assert.Nil(t, svc.SearchShelf("   "))
}
