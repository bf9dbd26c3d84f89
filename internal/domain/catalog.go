package domain

import "context"

// CatalogClient provides read-only access to the remote book catalog.
type CatalogClient interface {
	// Search runs one free-text query. It does not retry.
	Search(ctx context.Context, query string) ([]Book, error)

	// SearchISBN looks up a single volume by ISBN, as the barcode path
	// does. Returns ErrBookNotFound when the catalog has no match.
	SearchISBN(ctx context.Context, isbn string) (Book, error)

	// FetchSample returns a popular-ish result set by querying a random
	// subject, retrying with fresh subjects until one yields enough
	// items or the attempt ceiling is hit (ErrSampleExhausted).
	FetchSample(ctx context.Context) ([]Book, error)
}
