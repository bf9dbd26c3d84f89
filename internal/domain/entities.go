package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ReadingStatus tracks where a book sits in the reading lifecycle.
// The values match what the store persists, so renaming one is a
// data migration.
type ReadingStatus string

const (
	StatusToBeRead         ReadingStatus = "TBR"
	StatusCurrentlyReading ReadingStatus = "CurrentlyReading"
	StatusFinished         ReadingStatus = "Finished"
)

// Valid reports whether s is one of the known reading statuses.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusToBeRead, StatusCurrentlyReading, StatusFinished:
		return true
	}
	return false
}

// String returns a human-readable label for the status.
func (s ReadingStatus) String() string {
	switch s {
	case StatusToBeRead:
		return "To be Read"
	case StatusCurrentlyReading:
		return "Currently Reading"
	case StatusFinished:
		return "Finished"
	default:
		return string(s)
	}
}

// Format is the physical (or not) edition the user owns.
type Format string

const (
	FormatDigital   Format = "Digital"
	FormatHardcover Format = "Hardcover"
	FormatPaperback Format = "Paperback"
)

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatDigital, FormatHardcover, FormatPaperback:
		return true
	}
	return false
}

// Book is a read-only projection of one catalog search result.
// It is never mutated after mapping and never persisted on its own;
// a copy is embedded in LibraryBook at add time.
type Book struct {
	ID            string   // Catalog volume identifier
	Title         string   // Display title
	Authors       []string // Ordered author list
	Description   string   // Synopsis, may be empty
	PublishedDate string   // As reported by the catalog ("2019", "2019-03-01")
	Publisher     string
	PageCount     int

	// AverageRating is the catalog's community rating on a 0.0-5.0
	// scale, nil when the catalog reports none.
	AverageRating *float64

	Categories []string // Subject tags, unordered for display
	CoverURL   string   // Thumbnail URL, empty when the catalog has no cover
	ISBN10     string
	ISBN13     string
}

// AuthorLine returns the authors joined for display.
func (b Book) AuthorLine() string {
	return strings.Join(b.Authors, ", ")
}

// HasCover reports whether the catalog provided a cover image.
func (b Book) HasCover() bool { return b.CoverURL != "" }

// YearPublished returns the leading year of PublishedDate, or "" when
// the catalog gave no date.
func (b Book) YearPublished() string {
	if len(b.PublishedDate) >= 4 {
		return b.PublishedDate[:4]
	}
	return b.PublishedDate
}

const (
	// MaxRating is the top of the personal rating scale; 0 means unrated.
	MaxRating = 5

	// MaxReviewLen bounds the personal review text, in runes.
	MaxReviewLen = 150
)

// LibraryBook is one persisted library entry: a Book snapshot paired
// with the user's own status, format, rating and review.
type LibraryBook struct {
	ID        string        `json:"id"`
	Book      Book          `json:"book"`
	Status    ReadingStatus `json:"status"`
	Format    Format        `json:"format"`
	Rating    int           `json:"rating"`
	Review    string        `json:"review"`
	DateAdded time.Time     `json:"dateAdded"`
}

// Validate rejects entries that would break store invariants. Out-of-range
// values are rejected rather than clamped so a caller bug surfaces instead
// of silently saving altered input.
func (lb LibraryBook) Validate() error {
	if lb.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidBook)
	}
	if !lb.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBook, lb.Status)
	}
	if !lb.Format.Valid() {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidBook, lb.Format)
	}
	if lb.Rating < 0 || lb.Rating > MaxRating {
		return fmt.Errorf("%w: %d", ErrInvalidRating, lb.Rating)
	}
	if utf8.RuneCountInString(lb.Review) > MaxReviewLen {
		return fmt.Errorf("%w: %d runes", ErrReviewTooLong, utf8.RuneCountInString(lb.Review))
	}
	return nil
}

// Rated reports whether the user has rated the book.
func (lb LibraryBook) Rated() bool { return lb.Rating > 0 }

// Profile is the locally stored user identity record. Only presence is
// meaningful to the core; the fields exist for the profile screen.
type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Bio        string `json:"bio"`
	PictureURL string `json:"profilePicture"`
}
