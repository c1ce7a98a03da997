package backend

import (
	"context"
	"fmt"
	"net/http"
)

type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Phone   string `json:"phone"`
	Comment string `json:"comment"`
}

// SubmitFeedback posts a review. Only the status code is consumed.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/feedbacks", "", req)
	if err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}
	defer drainAndClose(resp)

	if !is2xx(resp.StatusCode) {
		return fmt.Errorf("submit feedback: unexpected status %d", resp.StatusCode)
	}
	return nil
}
