package service

import (
	"context"

	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/engagement"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/formatter"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/output"
	"github.com/reelhouse/cli/pkg/prompter"
)

// PostService provides post-related operations
type PostService struct {
	app *App
}

// NewPostService creates a new post service
func NewPostService(app *App) *PostService {
	return &PostService{app: app}
}

// List prints the feed
func (ps *PostService) List(ctx context.Context) error {
	logger.Debug("Listing posts")

	if err := ps.app.Engagement.LoadPosts(ctx); err != nil {
		return err
	}
	posts := ps.app.Engagement.Posts()
	rows := formatter.PostRows(posts, ps.app.me(), ps.app.Now())
	return output.Table(formatter.PostHeaders, rows, posts)
}

// Create publishes a post. Content is prompted for when neither content nor
// an image is given.
func (ps *PostService) Create(ctx context.Context, content, imagePath string) error {
	if content == "" && imagePath == "" {
		var err error
		content, err = prompter.PromptMultilineString("Post", 50)
		if err != nil {
			return err
		}
	}

	post, err := ps.app.Engagement.CreatePost(ctx, content, imagePath)
	if err != nil {
		return err
	}

	output.Success("✓ Post created: %s", post.ID)
	return output.Text(formatter.Post(*post, ps.app.me(), ps.app.Now()), post)
}

// Delete removes a post after confirmation unless yes is set. The feed is
// loaded first so a failed delete has a post to restore.
func (ps *PostService) Delete(ctx context.Context, postID string, yes bool) error {
	if _, err := ps.load(ctx, postID); err != nil {
		return err
	}
	if !yes {
		confirm, err := prompter.PromptConfirm("Delete post " + postID + "?")
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	if err := ps.app.Engagement.DeletePost(ctx, postID); err != nil {
		return err
	}
	output.Success("✓ Post deleted")
	return nil
}

// Like toggles the caller's like and reports the resulting state
func (ps *PostService) Like(ctx context.Context, postID string) error {
	if _, err := ps.load(ctx, postID); err != nil {
		return err
	}
	if err := ps.app.Engagement.ToggleLikePost(ctx, postID); err != nil {
		return err
	}

	post, _ := ps.app.Engagement.Post(postID)
	if post.Likes.Has(ps.app.me()) {
		output.Success("♥ Liked %s (%d likes)", postID, post.Likes.Len())
	} else {
		output.Info("Unliked %s (%d likes)", postID, post.Likes.Len())
	}
	return nil
}

// Show prints a post with its comment thread, read through the comments
// modal
func (ps *PostService) Show(ctx context.Context, postID string) error {
	post, err := ps.load(ctx, postID)
	if err != nil {
		return err
	}
	if !ps.app.Engagement.OpenComments(engagement.TargetPost, postID) {
		return apperrors.ServerRejected(404, "post "+postID+" not found")
	}
	defer ps.app.Engagement.CloseComments()

	modal, _ := ps.app.Engagement.CommentsModal()
	post.Comments = modal.Comments
	return output.Text(formatter.Post(post, ps.app.me(), ps.app.Now()), post)
}

// load refreshes the feed and returns postID from it. There is no
// single-post endpoint.
func (ps *PostService) load(ctx context.Context, postID string) (api.Post, error) {
	if err := ps.app.Engagement.LoadPosts(ctx); err != nil {
		return api.Post{}, err
	}
	post, ok := ps.app.Engagement.Post(postID)
	if !ok {
		return api.Post{}, apperrors.ServerRejected(404, "post "+postID+" not found")
	}
	return post, nil
}
