package domain

// Store handles the locally persisted collections (bbolt + memory).
// Every mutation is a whole-collection read-modify-write; there is no
// row-level update primitive, so a lost race costs at most the most
// recent unpersisted mutation and can never corrupt structure.
type Store interface {
	// === Library ===

	// ListBooks returns all library entries ordered newest-first by
	// DateAdded. A missing or unreadable stored collection is treated
	// as empty, never as an error.
	ListBooks() []LibraryBook

	// ContainsBook reports whether an entry with the id exists.
	ContainsBook(id string) bool

	// GetBook returns the entry with the id.
	GetBook(id string) (LibraryBook, bool)

	// AddBook appends a validated entry. Fails with ErrDuplicateBook
	// when the id is already present.
	AddBook(b LibraryBook) error

	// UpdateBook replaces the entry with the same id, keeping the stored
	// DateAdded. Fails with ErrBookNotFound when absent; never inserts.
	UpdateBook(b LibraryBook) error

	// RemoveBook deletes the entry with the id. Removing an absent id
	// is not an error.
	RemoveBook(id string) error

	// === Search history ===

	// SearchHistory returns past queries, most recent first.
	SearchHistory() []string

	// RecordSearch promotes (or inserts) a query at the front.
	RecordSearch(query string) error

	// RemoveSearch deletes a query from the history; idempotent.
	RemoveSearch(query string) error

	// === Profile ===

	Profile() (Profile, bool)
	SaveProfile(p Profile) error
	ClearProfile() error

	Close() error
}
