// Package products is the gateway to the product catalog service. Order
// generation uses it to snapshot product name/sku at generation time.
package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Product is the catalog's view of a product.
type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	SKU   string `json:"sku"`
	Price int64  `json:"price"`
}

// Catalog looks products up by id. A nil product with a nil error means the
// catalog does not know the id.
type Catalog interface {
	Product(ctx context.Context, id int64) (*Product, error)
}

// ErrUnavailable is returned when the catalog answered with a 5xx status.
// Such failures are retryable.
var ErrUnavailable = errors.New("catalog unavailable")

// HTTPCatalog is a Catalog implementation over the catalog's HTTP API.
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCatalog creates a catalog client with a sane default timeout.
func NewHTTPCatalog(baseURL string) *HTTPCatalog {
	return &HTTPCatalog{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Product fetches one product by id.
func (c *HTTPCatalog) Product(ctx context.Context, id int64) (*Product, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("catalog status %d: %w", resp.StatusCode, ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("catalog status %d", resp.StatusCode)
	}

	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &p, nil
}
