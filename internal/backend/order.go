package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/opencafe/menu-client-go/internal/cart"
)

const OrderTypeDineIn = "dine_in"

type OrderRequest struct {
	Items       []cart.Line `json:"items"`
	OrderType   string      `json:"order_type"`
	TableNumber *int        `json:"table_number,omitempty"`
	PromoCode   string      `json:"promo_code,omitempty"`
}

type OrderResponse struct {
	OrderNumber string `json:"order_number"`
}

// CreateOrder submits the order and returns the backend-assigned order
// number. Any non-2xx status is an error; the caller must not assume the
// order was created.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/orders", "", req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if !is2xx(resp.StatusCode) {
		drainAndClose(resp)
		return nil, fmt.Errorf("create order: unexpected status %d", resp.StatusCode)
	}

	var result OrderResponse
	if err := decodeJSON(resp, &result); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &result, nil
}
