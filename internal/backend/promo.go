package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// PromoValidation is the backend's verdict on a promo code. When Valid is
// false, Error carries the server-provided reason.
type PromoValidation struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
	DiscountAmount float64 `json:"discount_amount"`
	NewTotal       float64 `json:"new_total"`
	Error          string  `json:"error"`
}

// ValidatePromo asks the backend whether code applies to an order of the
// given total. A rejected code is a successful call with Valid=false, not
// an error; errors mean the verdict could not be obtained.
func (c *Client) ValidatePromo(ctx context.Context, code string, orderTotal float64) (*PromoValidation, error) {
	q := url.Values{}
	q.Set("code", code)
	q.Set("order_total", strconv.FormatFloat(orderTotal, 'f', -1, 64))

	resp, err := c.do(ctx, http.MethodPost, "/api/promo-codes/validate", q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("validate promo: %w", err)
	}

	if !is2xx(resp.StatusCode) {
		drainAndClose(resp)
		return nil, fmt.Errorf("validate promo: unexpected status %d", resp.StatusCode)
	}

	var result PromoValidation
	if err := decodeJSON(resp, &result); err != nil {
		return nil, fmt.Errorf("validate promo: %w", err)
	}
	return &result, nil
}
