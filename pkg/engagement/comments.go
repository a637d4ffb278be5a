package engagement

import (
	"context"
	"strings"
	"time"

	"github.com/reelhouse/cli/pkg/api"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/optimistic"
)

func validateText(field, text string) func() error {
	return func() error {
		if strings.TrimSpace(text) == "" {
			return apperrors.Validation(field, "cannot be empty")
		}
		return nil
	}
}

// AddComment appends a placeholder comment to a post, sends it, then adopts
// the server's comment list. On failure the placeholder is removed and the
// text goes back into the post's comment box.
func (c *Controller) AddComment(ctx context.Context, postID, text string) error {
	var (
		uid    string
		tempID = NewTempID(c.now())
	)
	target := PostTarget(postID)

	return execute(c, ctx, &uid, validateText("comment", text), optimistic.Mutation[[]api.Comment]{
		Name: OpComment,
		Apply: func() {
			delete(c.store.drafts, target)
			if p := c.store.post(postID); p != nil {
				p.Comments = append(p.Comments, c.store.placeholderComment(tempID, uid, text, c.now()))
			}
		},
		Request: func(ctx context.Context) ([]api.Comment, error) {
			return c.backend.CommentOnPost(ctx, postID, text)
		},
		Reconcile: func(server []api.Comment) {
			p := c.store.post(postID)
			if p == nil {
				return
			}
			p.Comments = mergeComments(c.store.hydrateComments(cloneComments(server)), p.Comments, tempID)
			c.store.rememberPost(*p)
		},
		Rollback: func(error) {
			if p := c.store.post(postID); p != nil {
				p.Comments = removeComment(p.Comments, tempID)
			}
			c.store.drafts[target] = text
		},
	})
}

func (s *Store) placeholderComment(id, uid, text string, now time.Time) api.Comment {
	return api.Comment{
		ID:         id,
		User:       s.author(uid),
		Text:       text,
		CreatedAt:  now,
		Likes:      api.IDSet{},
		Recomments: []api.Recomment{},
	}
}

// ToggleLikeComment flips the current user's like on a post comment
func (c *Controller) ToggleLikeComment(ctx context.Context, postID, commentID string) error {
	var (
		uid            string
		applied, liked bool
	)
	find := func() *api.Comment {
		if p := c.store.post(postID); p != nil {
			return findComment(p.Comments, commentID)
		}
		return nil
	}

	return execute(c, ctx, &uid, nil, optimistic.Mutation[*api.Comment]{
		Name: OpLikeComment,
		Apply: func() {
			if cm := find(); cm != nil {
				applied, liked = true, cm.Likes.Toggle(uid)
				cm.LikeCount = adjustCount(cm.LikeCount, liked)
			}
		},
		Request: func(ctx context.Context) (*api.Comment, error) {
			return c.backend.LikeComment(ctx, postID, commentID)
		},
		Reconcile: func(server *api.Comment) {
			cm := find()
			if cm == nil {
				return
			}
			if server.ID == "" {
				cm.Likes = server.Likes.Clone()
				cm.LikeCount = server.LikeCount
				return
			}
			c.store.mergeComment(cm, server.Clone())
		},
		Rollback: func(error) {
			if cm := find(); cm != nil && applied {
				setMember(&cm.Likes, uid, !liked)
				cm.LikeCount = adjustCount(cm.LikeCount, !liked)
			}
		},
	})
}

// AddRecomment replies to a post comment
func (c *Controller) AddRecomment(ctx context.Context, postID, commentID, text string) error {
	var (
		uid    string
		tempID = NewTempID(c.now())
	)
	target := CommentTarget(postID, commentID)
	find := func() *api.Comment {
		if p := c.store.post(postID); p != nil {
			return findComment(p.Comments, commentID)
		}
		return nil
	}

	return execute(c, ctx, &uid, validateText("reply", text), optimistic.Mutation[*api.Recomment]{
		Name: OpRecomment,
		Apply: func() {
			delete(c.store.drafts, target)
			if cm := find(); cm != nil {
				cm.Recomments = append(cm.Recomments, api.Recomment{
					ID:        tempID,
					User:      c.store.author(uid),
					Text:      text,
					CreatedAt: c.now(),
					Likes:     api.IDSet{},
				})
				cm.RecommentCount++
			}
		},
		Request: func(ctx context.Context) (*api.Recomment, error) {
			return c.backend.Recomment(ctx, postID, commentID, text)
		},
		Reconcile: func(server *api.Recomment) {
			cm := find()
			if cm == nil {
				return
			}
			r := server.Clone()
			r.User = c.store.hydrate(r.User)
			if r.User.ID == "" {
				r.User = c.store.author(uid)
			}
			if local := findRecomment(cm.Recomments, tempID); local != nil {
				*local = r
			} else if findRecomment(cm.Recomments, r.ID) == nil {
				cm.Recomments = append(cm.Recomments, r)
			}
			cm.RecommentCount = len(cm.Recomments)
		},
		Rollback: func(error) {
			if cm := find(); cm != nil {
				before := len(cm.Recomments)
				cm.Recomments = removeRecomment(cm.Recomments, tempID)
				if len(cm.Recomments) < before && cm.RecommentCount > 0 {
					cm.RecommentCount--
				}
			}
			c.store.drafts[target] = text
		},
	})
}

// ToggleLikeRecomment flips the current user's like on a reply
func (c *Controller) ToggleLikeRecomment(ctx context.Context, postID, commentID, recommentID string) error {
	var (
		uid            string
		applied, liked bool
	)
	find := func() *api.Recomment {
		if p := c.store.post(postID); p != nil {
			if cm := findComment(p.Comments, commentID); cm != nil {
				return findRecomment(cm.Recomments, recommentID)
			}
		}
		return nil
	}

	return execute(c, ctx, &uid, nil, optimistic.Mutation[*api.Recomment]{
		Name: OpLikeRecomment,
		Apply: func() {
			if r := find(); r != nil {
				applied, liked = true, r.Likes.Toggle(uid)
				r.LikeCount = adjustCount(r.LikeCount, liked)
			}
		},
		Request: func(ctx context.Context) (*api.Recomment, error) {
			return c.backend.LikeRecomment(ctx, postID, commentID, recommentID)
		},
		Reconcile: func(server *api.Recomment) {
			r := find()
			if r == nil {
				return
			}
			if server.ID == "" {
				r.Likes = server.Likes.Clone()
				r.LikeCount = server.LikeCount
				return
			}
			c.store.mergeRecomment(r, server.Clone())
		},
		Rollback: func(error) {
			if r := find(); r != nil && applied {
				setMember(&r.Likes, uid, !liked)
				r.LikeCount = adjustCount(r.LikeCount, !liked)
			}
		},
	})
}

func adjustCount(n int, up bool) int {
	if up {
		return n + 1
	}
	if n > 0 {
		return n - 1
	}
	return 0
}
