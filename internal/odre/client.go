// Package odre fetches raw records from the ODRE open-data catalog.
package odre

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the records endpoint of the "consommation quotidienne
// brute" dataset.
const DefaultBaseURL = "https://odre.opendatasoft.com/api/explore/v2.1/catalog/datasets/consommation-quotidienne-brute/records"

const defaultTimeout = 10 * time.Second

// orderBy requests most-recent-first pages. This is a fetch-efficiency hint
// only; normalization re-sorts ascending and must never rely on it.
const orderBy = "date_heure DESC"

// Record is one raw catalog record before type coercion.
type Record map[string]any

// ErrNoResults is returned when the catalog answers with an absent or empty
// results collection. It is a defined empty state, not a transport fault.
var ErrNoResults = errors.New("odre: no results")

// TransportError wraps network-level and HTTP-level failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "odre: transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError wraps malformed-payload failures, kept distinct from the
// transport layer so callers can tell a broken network from a broken API.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "odre: decode: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// Client is a minimal catalog records client. One call performs exactly one
// HTTP GET; pacing and retries belong to the caller.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option adjusts client construction.
type Option func(*Client)

// WithTimeout bounds the whole fetch, transport included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient constructs a catalog client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("odre: empty base url")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type recordsEnvelope struct {
	TotalCount int      `json:"total_count"`
	Results    []Record `json:"results"`
}

// FetchRecords performs one paginated GET and returns the raw records.
// Failure classes: *TransportError for network or HTTP status faults,
// *DecodeError for malformed payloads, ErrNoResults for a valid response
// without rows.
func (c *Client) FetchRecords(ctx context.Context, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		return nil, errors.New("odre: limit must be positive")
	}
	if offset < 0 {
		return nil, errors.New("odre: offset must not be negative")
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	query.Set("order_by", orderBy)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, &TransportError{Err: fmt.Errorf("http %d", resp.StatusCode)}
	}

	var envelope recordsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(envelope.Results) == 0 {
		return nil, ErrNoResults
	}
	return envelope.Results, nil
}
