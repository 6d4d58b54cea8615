package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shopfront-cli/internal/model"

	"go.uber.org/zap"
)

const DefaultEndpoint = "https://fakestoreapi.com/products"

// DefaultExcludedIDs are product ids hidden from every catalog fetch.
var DefaultExcludedIDs = []int{1, 2}

// Client retrieves the product catalog from the storefront API.
type Client struct {
	endpoint string
	http     *http.Client
	excluded map[int]bool
	log      *zap.Logger
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if s := strings.TrimSpace(endpoint); s != "" {
			c.endpoint = s
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithExcludedIDs replaces the default denylist. An empty list excludes nothing.
func WithExcludedIDs(ids []int) Option {
	return func(c *Client) {
		c.excluded = idSet(ids)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		http:     http.DefaultClient,
		excluded: idSet(DefaultExcludedIDs),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string { return c.endpoint }

// Fetch issues exactly one GET against the endpoint and returns the decoded
// products minus the excluded ids, in server order. There is no retry; the
// only deadline is the one carried by ctx.
func (c *Client) Fetch(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: c.endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			Endpoint: c.endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &FetchError{Endpoint: c.endpoint, Status: resp.StatusCode, Err: fmt.Errorf("decode products: %w", err)}
	}
	if products == nil {
		// A JSON null decodes without error.
		return nil, &FetchError{Endpoint: c.endpoint, Status: resp.StatusCode, Err: errors.New("decode products: expected a JSON array")}
	}

	out := excludeSet(products, c.excluded)
	c.log.Debug("catalog fetched",
		zap.String("endpoint", c.endpoint),
		zap.Int("received", len(products)),
		zap.Int("kept", len(out)),
	)
	return out, nil
}

// Exclude returns products whose id is not in ids, preserving order.
func Exclude(products []model.Product, ids []int) []model.Product {
	return excludeSet(products, idSet(ids))
}

func excludeSet(products []model.Product, ex map[int]bool) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if ex[p.ID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func idSet(ids []int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
