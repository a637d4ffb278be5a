package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/reelhouse/cli/pkg/logger"
)

// TextRequest is the body of comment and recomment creation
type TextRequest struct {
	Text string `json:"text"`
}

// commentsOf decodes the comment list out of either an updated post/reel or a
// {"comments": [...]} body; both carry the list under the same key.
func commentsOf(body []byte) ([]Comment, error) {
	var holder struct {
		Comments []Comment `json:"comments"`
	}
	if err := decodeEnvelope(body, "post", &holder); err != nil {
		return nil, err
	}
	return normalizeComments(holder.Comments), nil
}

// CommentOnPost adds a comment and returns the post's authoritative comment list
func (c *Client) CommentOnPost(ctx context.Context, postID, text string) ([]Comment, error) {
	logger.Debug("Creating comment", "post_id", postID)

	req := c.request(ctx).SetBody(TextRequest{Text: text})
	body, err := c.execute(req, http.MethodPost, fmt.Sprintf("/posts/%s/comment", postID))
	if err != nil {
		return nil, err
	}

	comments, err := commentsOf(body)
	if err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

// LikeComment toggles the caller's like on a comment
func (c *Client) LikeComment(ctx context.Context, postID, commentID string) (*Comment, error) {
	logger.Debug("Toggling comment like", "post_id", postID, "comment_id", commentID)

	path := fmt.Sprintf("/posts/%s/comments/%s/like", postID, commentID)
	body, err := c.execute(c.request(ctx), http.MethodPut, path)
	if err != nil {
		return nil, err
	}

	var comment Comment
	if err := decodeEnvelope(body, "comment", &comment); err != nil {
		return nil, fmt.Errorf("decode comment: %w", err)
	}
	comment.Normalize()

	return &comment, nil
}

// Recomment replies to a comment and returns the created recomment
func (c *Client) Recomment(ctx context.Context, postID, commentID, text string) (*Recomment, error) {
	logger.Debug("Creating recomment", "post_id", postID, "comment_id", commentID)

	req := c.request(ctx).SetBody(TextRequest{Text: text})
	path := fmt.Sprintf("/posts/%s/comments/%s/recomment", postID, commentID)
	body, err := c.execute(req, http.MethodPost, path)
	if err != nil {
		return nil, err
	}

	var recomment Recomment
	if err := decodeEnvelope(body, "recomment", &recomment); err != nil {
		return nil, fmt.Errorf("decode recomment: %w", err)
	}
	recomment.Normalize()

	return &recomment, nil
}

// LikeRecomment toggles the caller's like on a recomment
func (c *Client) LikeRecomment(ctx context.Context, postID, commentID, recommentID string) (*Recomment, error) {
	logger.Debug("Toggling recomment like",
		"post_id", postID, "comment_id", commentID, "recomment_id", recommentID)

	path := fmt.Sprintf("/posts/%s/comments/%s/recomments/%s/like", postID, commentID, recommentID)
	body, err := c.execute(c.request(ctx), http.MethodPut, path)
	if err != nil {
		return nil, err
	}

	var recomment Recomment
	if err := decodeEnvelope(body, "recomment", &recomment); err != nil {
		return nil, fmt.Errorf("decode recomment: %w", err)
	}
	recomment.Normalize()

	return &recomment, nil
}
