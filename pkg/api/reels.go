package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/reelhouse/cli/pkg/logger"
)

// ListReels retrieves one page of reels. feed selects a server-side candidate
// set ("following"); an empty feed is the public feed.
func (c *Client) ListReels(ctx context.Context, page, limit int, feed string) ([]Reel, error) {
	logger.Debug("Listing reels", "page", page, "limit", limit, "feed", feed)

	req := c.request(ctx).SetQueryParams(map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	})
	if feed != "" {
		req.SetQueryParam("feed", feed)
	}

	body, err := c.execute(req, http.MethodGet, "/reels")
	if err != nil {
		return nil, err
	}

	var reels []Reel
	if err := decodeEnvelope(body, "reels", &reels); err != nil {
		return nil, fmt.Errorf("decode reels: %w", err)
	}

	return NormalizeReels(reels), nil
}

// LikeReel toggles the caller's like on a reel and returns the updated reel
func (c *Client) LikeReel(ctx context.Context, reelID string) (*Reel, error) {
	logger.Debug("Toggling reel like", "reel_id", reelID)

	body, err := c.execute(c.request(ctx), http.MethodPut, fmt.Sprintf("/reels/%s/like", reelID))
	if err != nil {
		return nil, err
	}

	var reel Reel
	if err := decodeEnvelope(body, "reel", &reel); err != nil {
		return nil, fmt.Errorf("decode reel: %w", err)
	}
	reel.Normalize()

	return &reel, nil
}

// CommentOnReel adds a comment to a reel and returns the updated reel
func (c *Client) CommentOnReel(ctx context.Context, reelID, text string) (*Reel, error) {
	logger.Debug("Creating reel comment", "reel_id", reelID)

	req := c.request(ctx).SetBody(TextRequest{Text: text})
	body, err := c.execute(req, http.MethodPost, fmt.Sprintf("/reels/%s/comment", reelID))
	if err != nil {
		return nil, err
	}

	var reel Reel
	if err := decodeEnvelope(body, "reel", &reel); err != nil {
		return nil, fmt.Errorf("decode reel: %w", err)
	}
	reel.Normalize()

	return &reel, nil
}
