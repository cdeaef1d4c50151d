// Package aapi reads paged collections from a REST API that serves either
// HAL documents (records under _embedded, next page under _links.next.href)
// or DRF-style documents (records under results, next page under next).
package aapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wpk-/aapi-versioned/internal/logger"
	"github.com/wpk-/aapi-versioned/internal/metrics"
	"github.com/wpk-/aapi-versioned/internal/versioned"
)

// Client fetches collections relative to a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	apiKey     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps page requests per second. Zero disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithPageSize sets the requested page size.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithAPIKey sends key with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildURL, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		pageSize:   DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// All yields every record of the collection at path, following next links
// until the last page. params are added to the first request only; next
// links carry their own query. Iteration stops after the first error, which
// is a *TransportError for failed requests.
func (c *Client) All(ctx context.Context, path string, params url.Values) iter.Seq2[versioned.Document, error] {
	return func(yield func(versioned.Document, error) bool) {
		next, err := c.firstURL(path, params)
		if err != nil {
			yield(nil, err)
			return
		}

		for page := 1; next != ""; page++ {
			docs, following, err := c.page(ctx, next)
			if err != nil {
				yield(nil, err)
				return
			}
			logger.FromContext(ctx).Debug(LogMsgPageFetched,
				LogFieldURL, next, LogFieldPage, page, LogFieldRecords, len(docs))

			for _, d := range docs {
				if !yield(d, nil) {
					return
				}
			}
			next = following
		}
	}
}

func (c *Client) firstURL(path string, params url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgBuildURL, err)
	}
	u := c.baseURL.ResolveReference(ref)

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if q.Get(ParamPageSize) == "" {
		q.Set(ParamPageSize, strconv.Itoa(c.pageSize))
	}
	if q.Get(ParamFormat) == "" {
		q.Set(ParamFormat, FormatJSON)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) page(ctx context.Context, pageURL string) ([]versioned.Document, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", &TransportError{URL: pageURL, Err: fmt.Errorf("%s: %w", ErrMsgRateLimited, err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", ErrMsgBuildURL, err)
	}
	req.Header.Set("Accept", "application/hal+json, application/json")
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues("error").Inc()
		return nil, "", &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()
	metrics.RemoteRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", &TransportError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
	}

	docs, next, err := decodePage(resp.Body)
	if err != nil {
		// A truncated body is a transport failure, not bad data.
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, "", &TransportError{URL: pageURL, Err: err}
		}
		return nil, "", fmt.Errorf("%s %s: %w", ErrMsgDecodePage, pageURL, err)
	}
	return docs, next, nil
}

type halPage struct {
	Embedded map[string][]versioned.Document `json:"_embedded"`
	Links    struct {
		Next struct {
			Href string `json:"href"`
		} `json:"next"`
	} `json:"_links"`
	Results []versioned.Document `json:"results"`
	Next    *string              `json:"next"`
}

// decodePage extracts the records and next page URL from one response body.
func decodePage(r io.Reader) ([]versioned.Document, string, error) {
	var p halPage
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, "", err
	}

	if p.Results != nil || p.Next != nil {
		next := ""
		if p.Next != nil {
			next = *p.Next
		}
		return p.Results, next, nil
	}

	var docs []versioned.Document
	for _, list := range p.Embedded {
		docs = append(docs, list...)
	}
	return docs, p.Links.Next.Href, nil
}
