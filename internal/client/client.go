package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"

	"github.com/Cerebrovinny/apihealth/internal/health"
	"github.com/Cerebrovinny/apihealth/internal/version"
)

const (
	// HealthPath is the reporter's route.
	HealthPath = "/api/health"
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 10 * time.Second
)

// Fetcher retrieves one health snapshot.
type Fetcher interface {
	FetchHealth(ctx context.Context) (*health.Status, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (*health.Status, error)

func (f FetcherFunc) FetchHealth(ctx context.Context) (*health.Status, error) { return f(ctx) }

type options struct {
	timeout    time.Duration
	userAgent  string
	httpClient *req.Client
}

// Option configures a Client.
type Option func(*options)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithHTTPClient uses a clone of c as the underlying transport.
func WithHTTPClient(c *req.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// Client fetches health snapshots over HTTP. It never retries.
type Client struct {
	http    *req.Client
	baseURL string
}

var _ Fetcher = (*Client)(nil)

// New returns a Client for the reporter at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	o := options{
		timeout:   DefaultTimeout,
		userAgent: version.UserAgent(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	var hc *req.Client
	if o.httpClient != nil {
		hc = o.httpClient.Clone()
	} else {
		hc = req.C()
	}
	hc.SetBaseURL(baseURL).
		SetTimeout(o.timeout).
		SetUserAgent(o.userAgent).
		SetCommonRetryCount(0)

	return &Client{http: hc, baseURL: baseURL}, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchHealth issues exactly one GET to HealthPath.
func (c *Client) FetchHealth(ctx context.Context) (*health.Status, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(HealthPath)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	if !resp.IsSuccessState() {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var status health.Status
	if err := json.Unmarshal(resp.Bytes(), &status); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &status, nil
}
