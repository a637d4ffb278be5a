package api

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/reelhouse/cli/pkg/logger"
)

// ListPosts retrieves every post visible to the caller
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	logger.Debug("Listing posts")

	body, err := c.execute(c.request(ctx), http.MethodGet, "/posts")
	if err != nil {
		return nil, err
	}

	var posts []Post
	if err := decodeEnvelope(body, "posts", &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	return NormalizePosts(posts), nil
}

// CreatePost creates a post. imagePath is optional; when set the image is sent
// as a multipart file part.
func (c *Client) CreatePost(ctx context.Context, content, imagePath string) (*Post, error) {
	logger.Debug("Creating post", "image", imagePath != "")

	req := c.request(ctx).SetMultipartFormData(map[string]string{
		"content": content,
	})

	if imagePath != "" {
		if _, err := os.Stat(imagePath); err != nil {
			return nil, fmt.Errorf("image not found: %s", imagePath)
		}
		req.SetFile("image", imagePath)
	}

	body, err := c.execute(req, http.MethodPost, "/posts")
	if err != nil {
		return nil, err
	}

	var post Post
	if err := decodeEnvelope(body, "post", &post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	post.Normalize()

	return &post, nil
}

// DeletePost deletes a post by ID
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	logger.Debug("Deleting post", "post_id", postID)

	_, err := c.execute(c.request(ctx), http.MethodDelete, fmt.Sprintf("/posts/%s", postID))
	return err
}

// LikePost toggles the caller's like on a post and returns the updated post
func (c *Client) LikePost(ctx context.Context, postID string) (*Post, error) {
	logger.Debug("Toggling post like", "post_id", postID)

	body, err := c.execute(c.request(ctx), http.MethodPut, fmt.Sprintf("/posts/%s/like", postID))
	if err != nil {
		return nil, err
	}

	var post Post
	if err := decodeEnvelope(body, "post", &post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	post.Normalize()

	return &post, nil
}
