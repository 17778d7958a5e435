// Package order is the HTTP client other services use to look up orders.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	notificationsports "github.com/shopmesh/shopmesh/internal/domains/notifications/ports"
)

// ErrNotFound is returned when the order service does not know the order.
var ErrNotFound = errors.New("order not found")

// Client calls the order service's REST API. It satisfies the notification
// service's OrderLookup port.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient instantiates the order client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("order base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

type orderResponse struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Status string    `json:"status"`
}

// GetOrder fetches the order's identity slice.
func (c *Client) GetOrder(ctx context.Context, orderID uuid.UUID) (notificationsports.OrderInfo, error) {
	if c == nil || c.http == nil {
		return notificationsports.OrderInfo{}, errors.New("order client not configured")
	}
	endpoint := fmt.Sprintf("%s/api/orders/%s", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return notificationsports.OrderInfo{}, fmt.Errorf("build order request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return notificationsports.OrderInfo{}, fmt.Errorf("call order API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return notificationsports.OrderInfo{}, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	default:
		return notificationsports.OrderInfo{}, fmt.Errorf("order API unexpected status: %s", resp.Status)
	}

	var body orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return notificationsports.OrderInfo{}, fmt.Errorf("decode order response: %w", err)
	}
	return notificationsports.OrderInfo{ID: body.ID, UserID: body.UserID, Status: body.Status}, nil
}

var _ notificationsports.OrderLookup = (*Client)(nil)
