package service

import (
	"context"

	"github.com/reelhouse/cli/pkg/engagement"
	"github.com/reelhouse/cli/pkg/formatter"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/output"
)

// CommentService handles comments and recomments on posts
type CommentService struct {
	app   *App
	posts *PostService
}

func NewCommentService(app *App) *CommentService {
	return &CommentService{app: app, posts: NewPostService(app)}
}

// Add comments on a post. On failure the text is kept as the post's draft.
func (cs *CommentService) Add(ctx context.Context, postID, text string) error {
	if _, err := cs.posts.load(ctx, postID); err != nil {
		return err
	}

	target := engagement.PostTarget(postID)
	cs.app.Engagement.SetDraft(target, text)
	if err := cs.app.Engagement.AddComment(ctx, postID, text); err != nil {
		cs.keptDraft(target)
		return err
	}

	output.Success("✓ Comment added")
	return cs.printThread(postID)
}

// Like toggles the caller's like on a comment
func (cs *CommentService) Like(ctx context.Context, postID, commentID string) error {
	if _, err := cs.posts.load(ctx, postID); err != nil {
		return err
	}
	if err := cs.app.Engagement.ToggleLikeComment(ctx, postID, commentID); err != nil {
		return err
	}
	return cs.printThread(postID)
}

// Reply adds a recomment under a comment
func (cs *CommentService) Reply(ctx context.Context, postID, commentID, text string) error {
	if _, err := cs.posts.load(ctx, postID); err != nil {
		return err
	}

	target := engagement.CommentTarget(postID, commentID)
	cs.app.Engagement.SetDraft(target, text)
	if err := cs.app.Engagement.AddRecomment(ctx, postID, commentID, text); err != nil {
		cs.keptDraft(target)
		return err
	}

	output.Success("✓ Reply added")
	return cs.printThread(postID)
}

// LikeReply toggles the caller's like on a recomment
func (cs *CommentService) LikeReply(ctx context.Context, postID, commentID, recommentID string) error {
	if _, err := cs.posts.load(ctx, postID); err != nil {
		return err
	}
	if err := cs.app.Engagement.ToggleLikeRecomment(ctx, postID, commentID, recommentID); err != nil {
		return err
	}
	return cs.printThread(postID)
}

// keptDraft shows the text that failed to send so it can be retried
func (cs *CommentService) keptDraft(target engagement.Target) {
	if draft := cs.app.Engagement.Draft(target); draft != "" {
		logger.Debug("Draft restored", "target", target.ID)
		output.Info("Not sent, your text was: %s", draft)
	}
}

func (cs *CommentService) printThread(postID string) error {
	post, _ := cs.app.Engagement.Post(postID)
	return output.Text(formatter.Comments(post.Comments, cs.app.me(), cs.app.Now()), post.Comments)
}
