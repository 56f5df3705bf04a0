// Package crossref looks up DOI metadata from the CrossRef REST API.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/mondocite/mondocite/internal/citation"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps well under the public pool's 50 requests per second.
	RateLimit = 10.0

	// UserAgent identifies the client; a mailto is appended when configured.
	UserAgent = "MondoCite"
)

// Client is a rate-limited HTTP client for the CrossRef works endpoint.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithMailto sets the contact address sent in the User-Agent.
func WithMailto(mailto string) ClientOption {
	return func(c *Client) {
		c.mailto = mailto
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new CrossRef API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// userAgent follows CrossRef's polite-pool convention.
func (c *Client) userAgent() string {
	if c.mailto == "" {
		return UserAgent
	}
	return fmt.Sprintf("%s (mailto:%s)", UserAgent, c.mailto)
}

var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// NormalizeDOI strips resolver and "doi:" prefixes. Case is preserved.
func NormalizeDOI(doi string) (string, error) {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(lower, prefix) {
			doi = strings.TrimSpace(doi[len(prefix):])
			break
		}
	}

	if !doiPattern.MatchString(doi) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDOI, doi)
	}
	return doi, nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, doi string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			DOI:        doi,
		}
	}
	return nil
}

// GetWork fetches the raw CrossRef work record for a DOI.
func (c *Client) GetWork(ctx context.Context, doi string) (*Work, error) {
	doi, err := NormalizeDOI(doi)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/works/" + url.PathEscape(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("crossref lookup", "doi", doi, "status", resp.StatusCode, "duration", time.Since(start))

	if err := checkHTTPErrors(resp, doi); err != nil {
		return nil, err
	}

	var wr workResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("%w: parsing work: %v", ErrInvalidResponse, err)
	}
	if wr.Message == nil {
		return nil, fmt.Errorf("%w: missing message", ErrInvalidResponse)
	}
	if len(wr.Message.Title) == 0 {
		return nil, fmt.Errorf("%w: work has no title", ErrInvalidResponse)
	}

	return wr.Message, nil
}

// LookupDOI fetches a DOI and maps it to a Citation.
func (c *Client) LookupDOI(ctx context.Context, doi string) (citation.Citation, error) {
	w, err := c.GetWork(ctx, doi)
	if err != nil {
		return citation.Citation{}, err
	}
	return MapWork(*w), nil
}
