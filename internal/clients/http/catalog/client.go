// Package catalog is the HTTP client other services use to consult the
// catalog service.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cartsports "github.com/shopmesh/shopmesh/internal/domains/carts/ports"
	ordersports "github.com/shopmesh/shopmesh/internal/domains/orders/ports"
)

// Product mirrors the catalog service's product representation, trimmed to
// what consumers need.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Client calls the catalog service's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient instantiates the catalog client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// GetProducts fetches a batch of products. Ids the catalog does not know are
// absent from the result.
func (c *Client) GetProducts(ctx context.Context, ids []int64) ([]Product, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("catalog client not configured")
	}
	if len(ids) == 0 {
		return []Product{}, nil
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	query := url.Values{"ids": []string{strings.Join(parts, ",")}}
	endpoint := fmt.Sprintf("%s/api/products?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call catalog API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API unexpected status: %s", resp.Status)
	}
	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return products, nil
}

// ForOrders adapts the client to the order service's catalog port.
func (c *Client) ForOrders() ordersports.Catalog { return ordersAdapter{c} }

// ForCarts adapts the client to the cart service's catalog port.
func (c *Client) ForCarts() cartsports.Catalog { return cartsAdapter{c} }

type ordersAdapter struct{ client *Client }

func (a ordersAdapter) GetProducts(ctx context.Context, ids []int64) ([]ordersports.Product, error) {
	products, err := a.client.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make([]ordersports.Product, 0, len(products))
	for _, p := range products {
		result = append(result, ordersports.Product{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	return result, nil
}

type cartsAdapter struct{ client *Client }

func (a cartsAdapter) GetProducts(ctx context.Context, ids []int64) ([]cartsports.Product, error) {
	products, err := a.client.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make([]cartsports.Product, 0, len(products))
	for _, p := range products {
		result = append(result, cartsports.Product{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	return result, nil
}
