package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bookshelfdev/bookshelf/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second

	// sampleAttempts bounds FetchSample. Each attempt is an independent
	// network round trip with a freshly drawn subject; there is no
	// backoff, the limiter is the only pacing.
	sampleAttempts = 5

	// minSampleSize is the acceptance threshold for a sampled subject.
	// Sparse subjects return a handful of volumes, which makes a poor
	// home feed, so thin results trigger a redraw.
	minSampleSize = 5
)

// Client implements domain.CatalogClient against the Google Books
// volumes API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a catalog client. The limiter keeps sample retries
// from hammering the public API: 2 requests/second with a small burst.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 3),
		logger:  logger,
	}
}

// doRequest performs one GET against the volumes endpoint and returns
// the raw body. Transport failures and non-2xx statuses both surface as
// ErrCatalogUnreachable so callers treat them as one failure class.
func (c *Client) doRequest(ctx context.Context, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}
	reqURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalog request", "q", query.Get("q"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("catalog request error", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnreachable, resp.StatusCode)
	}

	return body, nil
}

// searchVolumes runs one query and maps the result list.
func (c *Client) searchVolumes(ctx context.Context, query url.Values) ([]domain.Book, error) {
	body, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	var resp VolumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return MapBooks(resp.Items), nil
}

// Search runs a single free-text query. It does not retry; the caller
// surfaces failures directly.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Book, error) {
	params := url.Values{}
	params.Set("q", query)

	books, err := c.searchVolumes(ctx, params)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("search complete", "query", query, "results", len(books))
	return books, nil
}

// SearchISBN looks up one volume by ISBN. The barcode screen feeds this
// the scanned digits verbatim.
func (c *Client) SearchISBN(ctx context.Context, isbn string) (domain.Book, error) {
	params := url.Values{}
	params.Set("q", "isbn:"+isbn)

	books, err := c.searchVolumes(ctx, params)
	if err != nil {
		return domain.Book{}, err
	}
	if len(books) == 0 {
		return domain.Book{}, fmt.Errorf("%w: isbn %s", domain.ErrBookNotFound, isbn)
	}

	return books[0], nil
}

// FetchSample queries a randomly chosen subject and accepts the first
// result with at least minSampleSize items, redrawing the subject up to
// sampleAttempts times. Nothing is cached between attempts.
func (c *Client) FetchSample(ctx context.Context) ([]domain.Book, error) {
	var lastErr error

	for attempt := 1; attempt <= sampleAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		subject := sampleSubjects[rand.IntN(len(sampleSubjects))]

		params := url.Values{}
		params.Set("q", "subject:"+subject)
		params.Set("orderBy", "relevance")

		books, err := c.searchVolumes(ctx, params)
		if err != nil {
			c.logger.Warn("sample attempt failed", "attempt", attempt, "subject", subject, "error", err)
			lastErr = err
			continue
		}

		if len(books) >= minSampleSize {
			c.logger.Debug("sample accepted", "attempt", attempt, "subject", subject, "count", len(books))
			return books, nil
		}

		c.logger.Warn("sample too thin, redrawing subject",
			"attempt", attempt,
			"subject", subject,
			"count", len(books),
		)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: last attempt: %v", domain.ErrSampleExhausted, lastErr)
	}
	return nil, domain.ErrSampleExhausted
}
