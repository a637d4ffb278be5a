package engagement

import (
	"context"

	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/optimistic"
)

// ReplaceReels drops every cached reel and stores reels in order
func (c *Controller) ReplaceReels(reels []api.Reel) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.reels = c.store.reels[:0:0]
	c.store.appendReels(reels)
	c.store.syncModal()
}

// AppendReels adds reels to the end, skipping ids already present
func (c *Controller) AppendReels(reels []api.Reel) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.appendReels(reels)
}

func (s *Store) appendReels(reels []api.Reel) {
	for _, r := range reels {
		if s.reel(r.ID) != nil {
			continue
		}
		s.reels = append(s.reels, r.Clone())
		s.rememberReel(r)
	}
}

// Reel returns a snapshot of one reel
func (c *Controller) Reel(id string) (api.Reel, bool) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if r := c.store.reel(id); r != nil {
		return r.Clone(), true
	}
	return api.Reel{}, false
}

// Reels returns a snapshot of every cached reel
func (c *Controller) Reels() []api.Reel {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	out := make([]api.Reel, len(c.store.reels))
	for i, r := range c.store.reels {
		out[i] = r.Clone()
	}
	return out
}

// ToggleLikeReel flips the current user's like on a reel
func (c *Controller) ToggleLikeReel(ctx context.Context, reelID string) error {
	var (
		uid            string
		applied, liked bool
	)

	return execute(c, ctx, &uid, nil, optimistic.Mutation[*api.Reel]{
		Name: OpLikeReel,
		Apply: func() {
			if r := c.store.reel(reelID); r != nil {
				applied, liked = true, r.Likes.Toggle(uid)
			}
		},
		Request: func(ctx context.Context) (*api.Reel, error) {
			return c.backend.LikeReel(ctx, reelID)
		},
		Reconcile: func(server *api.Reel) {
			if server.ID == "" {
				if r := c.store.reel(reelID); r != nil {
					r.Likes = server.Likes.Clone()
				}
				return
			}
			c.store.replaceReel(server.Clone(), "")
		},
		Rollback: func(error) {
			if r := c.store.reel(reelID); r != nil && applied {
				setMember(&r.Likes, uid, !liked)
			}
		},
	})
}

// AddReelComment comments on a reel
func (c *Controller) AddReelComment(ctx context.Context, reelID, text string) error {
	var (
		uid    string
		tempID = NewTempID(c.now())
	)
	target := ReelTarget(reelID)

	return execute(c, ctx, &uid, validateText("comment", text), optimistic.Mutation[*api.Reel]{
		Name: OpReelComment,
		Apply: func() {
			delete(c.store.drafts, target)
			if r := c.store.reel(reelID); r != nil {
				r.Comments = append(r.Comments, c.store.placeholderComment(tempID, uid, text, c.now()))
			}
		},
		Request: func(ctx context.Context) (*api.Reel, error) {
			return c.backend.CommentOnReel(ctx, reelID, text)
		},
		Reconcile: func(server *api.Reel) {
			if server.ID == "" {
				server.ID = reelID
			}
			c.store.replaceReel(server.Clone(), tempID)
		},
		Rollback: func(error) {
			if r := c.store.reel(reelID); r != nil {
				r.Comments = removeComment(r.Comments, tempID)
			}
			c.store.drafts[target] = text
		},
	})
}
