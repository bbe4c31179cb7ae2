package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/tunes/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
	defaultLimit   = 25
	maxBodySize    = 4 << 20
)

// Options configures the client
type Options struct {
	BaseURL string
	Country string
	Limit   int
	Timeout time.Duration
}

// Client implements domain.ArtistLookup against the iTunes Search API
type Client struct {
	baseURL    string
	country    string
	limit      int
	httpClient *http.Client
	logger     *slog.Logger

	// collapses identical in-flight terms
	inflight singleflight.Group
}

// NewClient creates a new iTunes Search API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		country: opts.Country,
		limit:   opts.Limit,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}
}

// LookupArtists searches tracks by artist name.
// Concurrent calls for the same term share one HTTP request; each caller
// still returns as soon as its own context is done.
func (c *Client) LookupArtists(ctx context.Context, term string) (domain.LookupResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return domain.LookupResponse{}, domain.ErrEmptyTerm
	}

	// The shared request must outlive a single cancelled caller; the HTTP
	// client timeout still bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(strings.ToLower(term), func() (interface{}, error) {
		return c.search(shared, term)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.LookupResponse{}, res.Err
		}
		if res.Shared {
			c.logger.Debug("shared in-flight lookup", "term", term)
		}
		return res.Val.(domain.LookupResponse), nil
	case <-ctx.Done():
		return domain.LookupResponse{}, ctx.Err()
	}
}

// search performs a single /search request
func (c *Client) search(ctx context.Context, term string) (domain.LookupResponse, error) {
	query := url.Values{}
	query.Set("term", term)
	query.Set("media", "music")
	query.Set("entity", "musicTrack")
	query.Set("attribute", "artistTerm")
	query.Set("limit", strconv.Itoa(c.limit))
	if c.country != "" {
		query.Set("country", c.country)
	}

	status, body, err := c.doRequest(ctx, "/search", query)
	if err != nil {
		return domain.LookupResponse{}, err
	}

	if status != http.StatusOK {
		// 4xx bodies usually carry errorMessage; rate limiting (403/429) sends none
		var errResp ErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr != nil {
			c.logger.Debug("unparseable error body", "status", status, "error", jsonErr)
		}
		c.logger.Warn("lookup reported failure", "status", status, "message", errResp.ErrorMessage, "term", term)
		return domain.LookupResponse{OK: false, Message: errResp.ErrorMessage}, nil
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.LookupResponse{}, fmt.Errorf("%w: %v", domain.ErrBadResponse, err)
	}

	result := MapSearchResponse(resp)
	c.logger.Debug("lookup complete", "term", term, "results", result.ResultCount)
	return domain.LookupResponse{OK: true, Data: result}, nil
}

// doRequest performs a GET and returns status and body
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("itunes request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("itunes request failed", "error", err)
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}
