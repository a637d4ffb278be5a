package api

import (
	"context"
	"net/http"
)

// RecordVisit posts one analytics visit. Callers treat it as fire-and-forget.
func (c *Client) RecordVisit(ctx context.Context, visit VisitRequest) error {
	_, err := c.execute(c.request(ctx).SetBody(visit), http.MethodPost, "/analytics/visit")
	return err
}
