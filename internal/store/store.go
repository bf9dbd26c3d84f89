package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/bookshelfdev/bookshelf/internal/domain"
)

// Bucket and key names. The keys match the original storage layout, so
// a value written under one is the entire serialized collection.
var bucketState = []byte("state")

const (
	keyLibrary = "libraryBooks"
	keyHistory = "previousSearches"
	keyProfile = "user"
)

// historyLimit caps the persisted search history. Every record rewrites
// the whole value, so the list is bounded to keep writes small.
const historyLimit = 50

// Store implements domain.Store using BoltDB. Each collection is stored
// as one JSON value under a fixed key; writes replace the whole value
// inside a single transaction, so a reader never observes a half-written
// collection.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger

	// foldHistory lowercases queries before history de-duplication.
	foldHistory bool

	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open creates a store backed by bookshelf.db under dataDir. An empty
// dataDir yields a memory-only store (no persistence), which tests and
// ephemeral runs use.
func Open(dataDir string, foldHistory bool, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dataDir == "" {
		return &Store{cache: make(map[string][]byte), foldHistory: foldHistory, logger: logger}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "bookshelf.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:          db,
		logger:      logger,
		foldHistory: foldHistory,
		cache:       make(map[string][]byte),
	}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

// get loads and decodes the value under key. Any failure — missing key,
// unreadable db, shape mismatch — reports false so callers degrade to
// their empty default instead of erroring.
func (s *Store) get(key string, dest interface{}) bool {
	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("discarding unreadable stored value", "key", key, "error", err)
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return true
}

// set replaces the whole value under key. The db write happens before
// the cache update so a failed write leaves the cache pointing at the
// last persisted state.
func (s *Store) set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db != nil {
		err = s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketState)
			return b.Put([]byte(key), data)
		})
		if err != nil {
			s.mu.Lock()
			delete(s.cache, key)
			s.mu.Unlock()
			return fmt.Errorf("failed to persist %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return nil
}

func (s *Store) delete(key string) error {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b != nil {
			return b.Delete([]byte(key))
		}
		return nil
	})
}

// === Library ===

func (s *Store) loadLibrary() []domain.LibraryBook {
	var books []domain.LibraryBook
	s.get(keyLibrary, &books)
	return books
}

// ListBooks returns all library entries, newest first.
func (s *Store) ListBooks() []domain.LibraryBook {
	books := s.loadLibrary()
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].DateAdded.After(books[j].DateAdded)
	})
	return books
}

// ContainsBook reports whether an entry with the id exists.
func (s *Store) ContainsBook(id string) bool {
	_, ok := s.GetBook(id)
	return ok
}

// GetBook returns the entry with the id.
func (s *Store) GetBook(id string) (domain.LibraryBook, bool) {
	for _, b := range s.loadLibrary() {
		if b.ID == id {
			return b, true
		}
	}
	return domain.LibraryBook{}, false
}

// AddBook appends a validated entry and persists the whole collection.
func (s *Store) AddBook(b domain.LibraryBook) error {
	if b.DateAdded.IsZero() {
		b.DateAdded = time.Now()
	}
	if err := b.Validate(); err != nil {
		return err
	}

	books := s.loadLibrary()
	for _, existing := range books {
		if existing.ID == b.ID {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateBook, b.ID)
		}
	}

	books = append(books, b)
	if err := s.set(keyLibrary, books); err != nil {
		s.logger.Error("failed to save library", "error", err, "id", b.ID)
		return err
	}

	s.logger.Info("added book", "id", b.ID, "title", b.Book.Title)
	return nil
}

// UpdateBook replaces the entry with the same id. DateAdded is taken
// from the stored entry; it is immutable after creation.
func (s *Store) UpdateBook(b domain.LibraryBook) error {
	books := s.loadLibrary()

	idx := -1
	for i, existing := range books {
		if existing.ID == b.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrBookNotFound, b.ID)
	}

	b.DateAdded = books[idx].DateAdded
	if err := b.Validate(); err != nil {
		return err
	}

	books[idx] = b
	if err := s.set(keyLibrary, books); err != nil {
		s.logger.Error("failed to save library", "error", err, "id", b.ID)
		return err
	}

	s.logger.Info("updated book", "id", b.ID)
	return nil
}

// RemoveBook deletes the entry with the id. Removing an absent id is a
// no-op, not an error.
func (s *Store) RemoveBook(id string) error {
	books := s.loadLibrary()

	kept := books[:0]
	for _, b := range books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(books) {
		return nil
	}

	if err := s.set(keyLibrary, kept); err != nil {
		s.logger.Error("failed to save library", "error", err, "id", id)
		return err
	}

	s.logger.Info("removed book", "id", id)
	return nil
}

// === Search history ===

// foldQuery normalizes a query for history storage and comparison.
func (s *Store) foldQuery(query string) string {
	query = strings.TrimSpace(query)
	if s.foldHistory {
		query = strings.ToLower(query)
	}
	return query
}

// SearchHistory returns past queries, most recent first.
func (s *Store) SearchHistory() []string {
	var history []string
	s.get(keyHistory, &history)
	return history
}

// RecordSearch moves the query to the front of the history, removing
// any existing equal entry first.
func (s *Store) RecordSearch(query string) error {
	query = s.foldQuery(query)
	if query == "" {
		return nil
	}

	history := s.SearchHistory()
	updated := make([]string, 0, len(history)+1)
	updated = append(updated, query)
	for _, q := range history {
		if q != query {
			updated = append(updated, q)
		}
	}
	if len(updated) > historyLimit {
		updated = updated[:historyLimit]
	}

	return s.set(keyHistory, updated)
}

// RemoveSearch deletes a query from the history; idempotent.
func (s *Store) RemoveSearch(query string) error {
	query = s.foldQuery(query)

	history := s.SearchHistory()
	kept := history[:0]
	for _, q := range history {
		if q != query {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(history) {
		return nil
	}

	return s.set(keyHistory, kept)
}

// === Profile ===

func (s *Store) Profile() (domain.Profile, bool) {
	var p domain.Profile
	ok := s.get(keyProfile, &p)
	return p, ok
}

func (s *Store) SaveProfile(p domain.Profile) error {
	return s.set(keyProfile, p)
}

func (s *Store) ClearProfile() error {
	return s.delete(keyProfile)
}
