package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/reelhouse/cli/pkg/logger"
)

// CurrentUser fetches the authenticated user. The backend answers with either
// {"user": {...}} or the bare user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	logger.Debug("Fetching current user")

	body, err := c.execute(c.request(ctx), http.MethodGet, "/auth/me")
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeEnvelope(body, "user", &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	user.Normalize()

	logger.Debug("Current user fetched", "username", user.Username)
	return &user, nil
}

// GetUser fetches a user profile by id
func (c *Client) GetUser(ctx context.Context, userID string) (*User, error) {
	logger.Debug("Fetching user", "user_id", userID)

	body, err := c.execute(c.request(ctx), http.MethodGet, fmt.Sprintf("/users/%s", userID))
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeEnvelope(body, "user", &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	user.Normalize()

	return &user, nil
}

// Follow makes the caller follow userID. No response body is required.
func (c *Client) Follow(ctx context.Context, userID string) error {
	logger.Debug("Following user", "user_id", userID)

	_, err := c.execute(c.request(ctx), http.MethodPost, fmt.Sprintf("/users/%s/follow", userID))
	return err
}

// Unfollow makes the caller stop following userID
func (c *Client) Unfollow(ctx context.Context, userID string) error {
	logger.Debug("Unfollowing user", "user_id", userID)

	_, err := c.execute(c.request(ctx), http.MethodPost, fmt.Sprintf("/users/%s/unfollow", userID))
	return err
}
