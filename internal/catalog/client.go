// Package catalog talks to the commerce backend (Shopify Admin REST) and
// normalizes its product records into the uniform domain.CatalogItem shape
// used by matching and reply generation.
//
// The catalog is a read-through projection: it is fetched in full on every
// inbound message and never persisted. A fetch failure aborts the whole
// message turn; there is no retry or caching at this layer.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tiendabot/go-shop-assistant/internal/config"
	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// apiVersion pins the Admin REST API version the client speaks.
const apiVersion = "2023-10"

// ErrNotConfigured is returned when the shop domain or access token is
// missing. It is a fatal configuration error for the turn, never a silent
// default.
var ErrNotConfigured = errors.New("shopify credentials are not configured")

// Client fetches products from the Shopify Admin REST API.
type Client struct {
	cfg config.ShopifyConfig

	// baseURL overrides the derived https://{shop-domain} origin in tests.
	baseURL string
	httpc   *http.Client
}

// NewClient constructs a Client from Shopify settings. Credentials are
// checked at call time, not here, so a partially configured process can
// still boot.
func NewClient(cfg config.ShopifyConfig) *Client {
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCatalog retrieves the full product list (no pagination assumed) and
// returns it normalized. It fails hard on missing credentials, transport
// errors, and non-2xx responses.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	if c.cfg.ShopDomain == "" || c.cfg.AccessToken == "" {
		return nil, ErrNotConfigured
	}

	base := c.baseURL
	if base == "" {
		base = "https://" + c.cfg.ShopDomain
	}
	url := fmt.Sprintf("%s/admin/api/%s/products.json", base, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("fetch products: status %d: %s", resp.StatusCode, body)
	}

	var payload productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(payload.Products))
	for _, p := range payload.Products {
		items = append(items, Normalize(p))
	}
	return items, nil
}
