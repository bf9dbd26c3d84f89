package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrCatalogUnreachable indicates a transport failure or non-success
	// status from the remote catalog
	ErrCatalogUnreachable = errors.New("book catalog is unreachable")

	// ErrMalformedResponse indicates the catalog returned a body that
	// could not be parsed
	ErrMalformedResponse = errors.New("malformed catalog response")

	// ErrSampleExhausted indicates no sampled subject produced enough
	// results within the retry ceiling
	ErrSampleExhausted = errors.New("sample fetch exhausted retries")

	// ErrBookNotFound indicates the requested library entry does not exist
	ErrBookNotFound = errors.New("book not found in library")

	// ErrDuplicateBook indicates the book is already in the library
	ErrDuplicateBook = errors.New("book already in library")

	// ErrInvalidBook indicates an entry with a missing id or unknown
	// status/format value
	ErrInvalidBook = errors.New("invalid library entry")

	// ErrInvalidRating indicates a personal rating outside 0-5
	ErrInvalidRating = errors.New("rating out of range")

	// ErrReviewTooLong indicates a review over the length bound
	ErrReviewTooLong = errors.New("review too long")
)
