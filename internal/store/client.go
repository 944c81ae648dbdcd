// Package store is the HTTP client for the remote relational data store.
// The store exposes REST-style collection endpoints with equality filters,
// server-side ordering, and a count directive; a single static API key acts
// both as the identifying key and as the bearer credential.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	restPath       = "/rest/v1/"
	defaultTimeout = 15 * time.Second
)

// Filter is an equality predicate on a column.
type Filter struct {
	Column string
	Value  string
}

// ByID filters on primary-key equality.
func ByID(id string) []Filter {
	return []Filter{{Column: "id", Value: id}}
}

// Options shape a read request.
type Options struct {
	Select  string // columns directive, defaults to "*"
	Filters []Filter
	Order   string // order column, empty for store default
	Desc    bool
	Limit   int // 0 means no limit
}

// Client talks to the remote store. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client

	// OnRequest, when set, observes every completed round trip.
	// Status is 0 for network-level failures.
	OnRequest func(resource, method string, status int)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request; expiry surfaces as a TransportError.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// WithHTTPClient substitutes the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// New creates a store client for the given base URL and API key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select fetches rows from resource and decodes the JSON array into out,
// which must be a pointer to a slice.
func (c *Client) Select(ctx context.Context, resource string, opts Options, out any) error {
	body, err := c.do(ctx, http.MethodGet, resource, queryString(opts), nil, false)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// Count returns the number of rows in resource using the store's count
// directive, avoiding a full row transfer.
func (c *Client) Count(ctx context.Context, resource string) (int, error) {
	body, err := c.do(ctx, http.MethodGet, resource, "select=count", nil, false)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

// Insert creates a row and decodes the returned representation into out when
// out is non-nil. The store answers with a single-element array.
func (c *Client) Insert(ctx context.Context, resource string, payload any, out any) error {
	body, err := c.do(ctx, http.MethodPost, resource, "", payload, true)
	if err != nil {
		return err
	}
	return decodeFirst(body, out)
}

// Update applies a partial update to the rows matching filters and decodes
// the returned representation into out when out is non-nil. Only the fields
// present in patch are sent.
func (c *Client) Update(ctx context.Context, resource string, filters []Filter, patch any, out any) error {
	body, err := c.do(ctx, http.MethodPatch, resource, filterQuery(filters), patch, true)
	if err != nil {
		return err
	}
	return decodeFirst(body, out)
}

// Delete removes the rows matching filters. Deleting an absent row is not an
// error; the caller performs no existence check.
func (c *Client) Delete(ctx context.Context, resource string, filters []Filter) error {
	_, err := c.do(ctx, http.MethodDelete, resource, filterQuery(filters), nil, false)
	return err
}

func (c *Client) do(ctx context.Context, method, resource, query string, payload any, representation bool) ([]byte, error) {
	u := c.baseURL + restPath + resource
	if query != "" {
		u += "?" + query
	}

	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if representation {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.observe(resource, method, 0)
		return nil, &TransportError{Body: err.Error()}
	}
	defer resp.Body.Close()

	c.observe(resource, method, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func (c *Client) observe(resource, method string, status int) {
	if c.OnRequest != nil {
		c.OnRequest(resource, method, status)
	}
}

// decodeFirst unpacks the first element of a JSON array response into out.
func decodeFirst(body []byte, out any) error {
	if out == nil {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		// Some stores answer PATCH/POST with a bare object.
		return json.Unmarshal(body, out)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw[0], out)
}

func queryString(opts Options) string {
	q := url.Values{}
	sel := opts.Select
	if sel == "" {
		sel = "*"
	}
	q.Set("select", sel)
	for _, f := range opts.Filters {
		q.Set(f.Column, "eq."+f.Value)
	}
	if opts.Order != "" {
		dir := ".asc"
		if opts.Desc {
			dir = ".desc"
		}
		q.Set("order", opts.Order+dir)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	return q.Encode()
}

func filterQuery(filters []Filter) string {
	q := url.Values{}
	for _, f := range filters {
		q.Set(f.Column, "eq."+f.Value)
	}
	return q.Encode()
}
