package ado

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultUserAgent is sent with every request so the upstream can identify
// the crawler and apply its own throttling.
const DefaultUserAgent = "WorkitemMirror/1.0 (+https://github.com/workitem-mirror)"

const apiVersion = "7.0"

// HTTP timeouts so a single hung request can't stall the crawl indefinitely.
const (
	connectTimeout        = 10 * time.Second
	responseHeaderTimeout = 25 * time.Second // time to first response header
	totalTimeout          = 60 * time.Second // total request, sized for attachment downloads
)

// Client talks to the work item tracking REST API of one project. All
// requests authenticate with a pre-provisioned personal access token.
type Client struct {
	baseURL       string
	pat           string
	http          *http.Client
	retryMax      int
	retryBase     time.Duration
	retryMaxDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default transport (tests, proxies).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.http = client }
}

// WithRetry enables bounded retry with exponential backoff on fetches.
// max <= 0 disables retry.
func WithRetry(max int, base, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryMax = max
		c.retryBase = base
		c.retryMaxDelay = maxDelay
	}
}

// NewClient builds a client for {orgURL}/{project}. orgURL is the
// organization base (e.g. https://dev.azure.com/fabrikam).
func NewClient(orgURL, project, pat string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(orgURL, "/") + "/" + url.PathEscape(project),
		pat:     pat,
		http:    newHTTPClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newHTTPClient returns an http.Client with explicit connect and
// response-header timeouts so hung requests release their slot.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
			ResponseHeaderTimeout: responseHeaderTimeout,
		},
		Timeout: totalTimeout,
	}
}

// WorkItem fetches one item's fields, and with expandRelations its relation
// list, in a single call.
func (c *Client) WorkItem(ctx context.Context, id int, expandRelations bool) (WorkItemDetail, error) {
	u := fmt.Sprintf("%s/_apis/wit/workitems/%d?api-version=%s", c.baseURL, id, apiVersion)
	if expandRelations {
		u += "&$expand=relations"
	}
	body, err := c.get(ctx, u)
	if err != nil {
		return WorkItemDetail{}, err
	}
	return ParseWorkItem(body)
}

// Comments fetches the ordered comment list for one item.
func (c *Client) Comments(ctx context.Context, id int) ([]Comment, error) {
	u := fmt.Sprintf("%s/_apis/wit/workItems/%d/comments?api-version=%s-preview.3", c.baseURL, id, apiVersion)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return ParseComments(body)
}

// QueryIDs executes a saved query and returns the matching ids in upstream
// order. The query itself is opaque to the crawler.
func (c *Client) QueryIDs(ctx context.Context, queryID string) ([]int, error) {
	u := fmt.Sprintf("%s/_apis/wit/wiql/%s?api-version=%s", c.baseURL, url.PathEscape(queryID), apiVersion)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return ParseQueryResult(body)
}

// Download fetches raw bytes from any URL: attachment endpoints as well as
// arbitrary embedded-image URLs found in HTML fields.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL)
}

// get fetches a URL with bounded exponential backoff. Retry never changes
// what a successful fetch returns; it only narrows the window for
// transient upstream failures.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.retryMax <= 0 {
		return c.getOnce(ctx, url)
	}
	delay := c.retryBase
	attempts := 0
	for {
		body, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		attempts++
		if attempts > c.retryMax || ctx.Err() != nil {
			return nil, err
		}
		if delay > 0 {
			if c.retryMaxDelay > 0 && delay > c.retryMaxDelay {
				delay = c.retryMaxDelay
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}
	}
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	if c.pat != "" {
		req.SetBasicAuth("", c.pat)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}
