// Package rest implements the api ports over the remote finance API's JSON
// endpoints. Authentication is session-cookie based; the client keeps its
// cookie jar for the lifetime of the process.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"moneta/internal/api"
	"moneta/internal/core"
)

var _ api.Store = (*Client)(nil)

type Client struct {
	baseURL     string
	base        *url.URL
	http        *http.Client
	jar         http.CookieJar
	sessionFile string
}

// New creates a client for the API at baseURL (scheme and host, no trailing
// slash required). The session lives only as long as the client.
func New(baseURL string) (*Client, error) {
	return NewWithSession(baseURL, "")
}

// NewWithSession creates a client that persists its session cookies to
// sessionFile, so a login in one process invocation carries over to the
// next. An empty sessionFile disables persistence.
func NewWithSession(baseURL, sessionFile string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("missing API base URL")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		baseURL:     baseURL,
		base:        base,
		http:        newHTTPClient(jar),
		jar:         jar,
		sessionFile: sessionFile,
	}
	c.loadSession()
	return c, nil
}

// newHTTPClient builds a pooled HTTP client with conservative timeouts.
// There is no retry layer; a failed request surfaces directly.
func newHTTPClient(jar http.CookieJar) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 20 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   30 * time.Second,
	}
}

// apiError is the {"error": "..."} body the API returns on failures.
type apiError struct {
	Error string `json:"error"`
}

// do performs one JSON round trip. A non-2xx response becomes a single
// descriptive error carrying the API's message when one is present.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if len(resp.Cookies()) > 0 {
		c.saveSession()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, ae.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var out []core.Expense
	if err := c.do(ctx, http.MethodGet, "/api/expenses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	var out core.Expense
	if err := c.do(ctx, http.MethodPost, "/api/expenses", e, &out); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

func (c *Client) UpdateExpense(ctx context.Context, e core.Expense) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/expenses/%d", e.ID), e, nil)
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil, nil)
}

func (c *Client) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	var out []core.Budget
	if err := c.do(ctx, http.MethodGet, "/api/budgets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var out core.Budget
	if err := c.do(ctx, http.MethodPost, "/api/budgets", b, &out); err != nil {
		return core.Budget{}, err
	}
	return out, nil
}

func (c *Client) UpdateBudget(ctx context.Context, b core.Budget) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/budgets/%d", b.ID), b, nil)
}

func (c *Client) DeleteBudget(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/budgets/%d", id), nil, nil)
}

func (c *Client) ListSavings(ctx context.Context) ([]core.Saving, error) {
	var out []core.Saving
	if err := c.do(ctx, http.MethodGet, "/api/savings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSaving(ctx context.Context, s core.Saving) (core.Saving, error) {
	var out core.Saving
	if err := c.do(ctx, http.MethodPost, "/api/savings", s, &out); err != nil {
		return core.Saving{}, err
	}
	return out, nil
}

func (c *Client) UpdateSaving(ctx context.Context, s core.Saving) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/savings/%d", s.ID), s, nil)
}

func (c *Client) DeleteSaving(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/savings/%d", id), nil, nil)
}

func (c *Client) ReadSummary(ctx context.Context) (core.Summary, error) {
	var out core.Summary
	if err := c.do(ctx, http.MethodGet, "/api/reports/summary", nil, &out); err != nil {
		return core.Summary{}, err
	}
	return out, nil
}
