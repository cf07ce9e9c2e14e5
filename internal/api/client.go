package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/justyntemme/booksearch-t/pkg/models"
	"golang.org/x/time/rate"
)

// Book content can be large; everything else is small JSON.
const maxBodyBytes = 64 << 20

// Client is the HTTP client for the book search API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the overall per-request timeout; zero means none
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit throttles outgoing requests; rps <= 0 disables throttling
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 3)
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request issues a GET against the API
func (c *Client) request(ctx context.Context, op, path string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, newError(KindNetwork, op, 0, "request throttled", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, newError(KindNetwork, op, 0, "invalid request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "op", op, "path", path, "request_id", requestID, "err", err)
		return nil, newError(KindNetwork, op, 0, "request failed", err)
	}

	c.logger.Debug("request done",
		"op", op,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)
	return resp, nil
}

// parseResponse reads and unmarshals the response body
func parseResponse[T any](op string, resp *http.Response) (T, error) {
	var result T
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return result, newError(KindNetwork, op, resp.StatusCode, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, statusError(op, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, newError(KindMalformed, op, resp.StatusCode, "failed to decode response", err)
	}

	return result, nil
}

// statusError classifies a non-2xx response, preferring the server's message
func statusError(op string, status int, body []byte) *Error {
	kind := KindServer
	if status == http.StatusNotFound {
		kind = KindNotFound
	}

	msg := fmt.Sprintf("HTTP %d", status)
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		msg = errResp.Error
	}
	return newError(kind, op, status, msg, nil)
}

// Search runs a paginated keyword or regex search
func (c *Client) Search(ctx context.Context, query string, mode models.SearchMode, page int) (*models.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", string(mode))
	params.Set("page", strconv.Itoa(page))

	const op = "search"
	resp, err := c.request(ctx, op, "/api/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	result, err := parseResponse[*models.SearchResponse](op, resp)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, newError(KindMalformed, op, resp.StatusCode, "empty search payload", nil)
	}
	return result, nil
}

// SearchRegexLegacy queries the older unpaginated regex endpoint
func (c *Client) SearchRegexLegacy(ctx context.Context, pattern string) ([]models.SearchResult, error) {
	const op = "regex search"
	resp, err := c.request(ctx, op, "/api/search/regex?pattern="+url.QueryEscape(pattern))
	if err != nil {
		return nil, err
	}

	result, err := parseResponse[models.RegexSearchResponse](op, resp)
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

// GetBook returns a single book by ID
func (c *Client) GetBook(ctx context.Context, id int) (*models.BookDetail, error) {
	const op = "get book"
	resp, err := c.request(ctx, op, "/api/book/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}

	book, err := parseResponse[*models.BookDetail](op, resp)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, newError(KindMalformed, op, resp.StatusCode, "empty book payload", nil)
	}
	return book, nil
}

// GetRecommendations returns books similar to id. An empty list is valid.
func (c *Client) GetRecommendations(ctx context.Context, id int) ([]models.Book, error) {
	const op = "get recommendations"
	resp, err := c.request(ctx, op, "/api/recommendations/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}

	books, err := parseResponse[[]models.Book](op, resp)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

// GetContent returns the full text of a book. Error payloads, undecodable
// bodies and payloads without content all map to KindContentUnavailable.
func (c *Client) GetContent(ctx context.Context, id int) (string, error) {
	const op = "get content"
	resp, err := c.request(ctx, op, "/api/content/"+strconv.Itoa(id))
	if err != nil {
		return "", err
	}

	data, err := parseResponse[models.ContentResponse](op, resp)
	if err != nil {
		return "", contentError(op, err)
	}

	if data.Content == nil || *data.Content == "" {
		return "", newError(KindContentUnavailable, op, resp.StatusCode, "no content received from server", nil)
	}
	return *data.Content, nil
}

// contentError maps any API failure other than a network one to
// KindContentUnavailable, keeping the status and message
func contentError(op string, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind != KindNetwork {
		return newError(KindContentUnavailable, op, apiErr.Status, apiErr.Message, nil)
	}
	return err
}
