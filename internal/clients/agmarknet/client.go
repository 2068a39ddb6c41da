// Package agmarknet provides a client for the Agmarknet daily report API
package agmarknet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/agrisense/agmark/internal/common"
)

const (
	DefaultBaseURL   = "https://api.agmarknet.gov.in/v1/prices-and-arrivals/commodity-market/daily-report-state"
	DefaultUserAgent = "AgriSenseBot/1.0"
	DefaultTimeout   = 45 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client downloads daily state report spreadsheets.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Agmarknet client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an upstream API failure: an HTTP error status, a JSON
// error body, or a payload that is not a spreadsheet.
type APIError struct {
	StatusCode  int
	Message     string
	ContentType string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("agmarknet API error: %s (status: %d, content-type: %s)",
		e.Message, e.StatusCode, e.ContentType)
}

// DownloadDailyReport fetches the daily state report spreadsheet for one
// state and date (YYYY-MM-DD) and returns its raw bytes. The upstream
// accepts the date under both "liveDate" and "date".
func (c *Client) DownloadDailyReport(ctx context.Context, stateID int, date string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("liveDate", date)
	params.Set("date", date)
	params.Set("state", strconv.Itoa(stateID))
	params.Set("includeExcel", "true")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug().Str("date", date).Int("state", stateID).Msg("Agmarknet report request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode:  resp.StatusCode,
			Message:     string(body),
			ContentType: contentType,
		}
	}

	// The API signals "no report for this date" with a JSON error body
	// instead of an error status.
	if !strings.Contains(contentType, "excel") && !strings.Contains(contentType, "spreadsheet") {
		msg := "expected a spreadsheet payload"
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Message != "" {
			msg = errBody.Message
		}
		return nil, &APIError{
			StatusCode:  resp.StatusCode,
			Message:     msg,
			ContentType: contentType,
		}
	}

	c.logger.Debug().Str("date", date).Int("bytes", len(body)).Msg("Agmarknet report downloaded")

	return body, nil
}
