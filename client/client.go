// Package client is the item service SDK. Client implements the item store's
// gateway, the trash source and the activity sink over HTTP.
package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ananyateklu/second-brain-sub004/client/internal/api"
	"github.com/ananyateklu/second-brain-sub004/devmode"
	"github.com/ananyateklu/second-brain-sub004/model"
)

// Client talks to one item service. It performs no retries; callers decide.
type Client struct {
	baseURL string
	http    *http.Client
	apiKey  string

	retentionDays atomic.Int64 // last value reported by /api/trash
	closedOnce    uint32
}

// New constructs a Client with the specified baseURL and apiKey.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}
	if apiKey == "" {
		return nil, errors.New("apiKey cannot be empty")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.wrapTransport()
	return c, nil
}

// NewWithDevMode uses the shared development API key.
func NewWithDevMode(baseURL string, opts ...Option) (*Client, error) {
	return New(baseURL, devmode.APIKey, opts...)
}

// wrapTransport installs request metrics and the Authorization header on top
// of whatever transport the options left in place.
func (c *Client) wrapTransport() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &apiKeyTransport{
		base:   &metricsTransport{base: base},
		apiKey: c.apiKey,
	}
}

// apiKeyTransport wraps an http.RoundTripper to automatically add Authorization header
type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(cloned)
}

// BaseURL reports the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle connections. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

// --------------------------------------------------------------------
// Item operations - delegated to internal/api
// --------------------------------------------------------------------

func (c *Client) CreateItem(ctx context.Context, d model.Draft) (*model.Item, error) {
	return api.CreateItem(ctx, c.http, c.baseURL, d)
}

// GetItem fetches one item by id.
func (c *Client) GetItem(ctx context.Context, id string) (*model.Item, error) {
	return api.GetItem(ctx, c.http, c.baseURL, id)
}

func (c *Client) UpdateItem(ctx context.Context, id string, p model.Patch) (*model.Item, error) {
	return api.UpdateItem(ctx, c.http, c.baseURL, id, p)
}

// DeleteItem soft-deletes; the item moves to the service's trash.
func (c *Client) DeleteItem(ctx context.Context, id string) (*model.Item, error) {
	return api.DeleteItem(ctx, c.http, c.baseURL, id)
}

func (c *Client) ArchiveItem(ctx context.Context, id string) (*model.Item, error) {
	return api.ArchiveItem(ctx, c.http, c.baseURL, id)
}

func (c *Client) UnarchiveItem(ctx context.Context, id string) (*model.Item, error) {
	return api.UnarchiveItem(ctx, c.http, c.baseURL, id)
}

// RestoreItem brings a trashed item back as active.
func (c *Client) RestoreItem(ctx context.Context, id string) (*model.Item, error) {
	return api.RestoreItem(ctx, c.http, c.baseURL, id)
}

func (c *Client) ListItems(ctx context.Context, archived bool) ([]model.Item, error) {
	return api.ListItems(ctx, c.http, c.baseURL, archived)
}

// --------------------------------------------------------------------
// Links
// --------------------------------------------------------------------

func (c *Client) AddLink(ctx context.Context, sourceID, targetID string) (*model.LinkResult, error) {
	return api.AddLink(ctx, c.http, c.baseURL, sourceID, targetID)
}

func (c *Client) RemoveLink(ctx context.Context, sourceID, targetID string) (*model.LinkResult, error) {
	return api.RemoveLink(ctx, c.http, c.baseURL, sourceID, targetID)
}

// --------------------------------------------------------------------
// Trash and activity
// --------------------------------------------------------------------

// ListTrash returns the service's trash and remembers its retention window.
func (c *Client) ListTrash(ctx context.Context) ([]model.TrashedItem, error) {
	lr, err := api.ListTrash(ctx, c.http, c.baseURL)
	if err != nil {
		return nil, err
	}
	if lr.RetentionDays > 0 {
		c.retentionDays.Store(int64(lr.RetentionDays))
	}
	return lr.Items, nil
}

// RetentionDays is the purge window last reported by the service, or 0 if
// the trash has not been listed yet.
func (c *Client) RetentionDays() int { return int(c.retentionDays.Load()) }

// RecordActivity posts one audit entry synchronously. The activity recorder
// calls this from its background executor.
func (c *Client) RecordActivity(ctx context.Context, e model.ActivityEntry) error {
	return api.RecordActivity(ctx, c.http, c.baseURL, e)
}

// ListActivities returns recent entries, newest first. itemID may be empty.
func (c *Client) ListActivities(ctx context.Context, itemID string, limit int) ([]model.ActivityEntry, error) {
	return api.ListActivities(ctx, c.http, c.baseURL, itemID, limit)
}
