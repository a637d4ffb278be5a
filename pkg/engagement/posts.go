package engagement

import (
	"context"
	"strings"

	"github.com/reelhouse/cli/pkg/api"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/optimistic"
)

// LoadPosts replaces the post list with the server's. On failure the current
// list is kept.
func (c *Controller) LoadPosts(ctx context.Context) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	posts, err := c.backend.ListPosts(ctx)
	if err != nil {
		c.notify(OpLoadPosts, err)
		return err
	}
	if c.isClosed() {
		return context.Canceled
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.posts = make([]api.Post, len(posts))
	for i, p := range posts {
		c.store.posts[i] = p.Clone()
		c.store.rememberPost(p)
	}
	c.store.syncModal()
	return nil
}

// Posts returns a snapshot of the post list
func (c *Controller) Posts() []api.Post {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	out := make([]api.Post, len(c.store.posts))
	for i, p := range c.store.posts {
		out[i] = p.Clone()
	}
	return out
}

// Post returns a snapshot of one post
func (c *Controller) Post(id string) (api.Post, bool) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if p := c.store.post(id); p != nil {
		return p.Clone(), true
	}
	return api.Post{}, false
}

// CreatePost uploads a post and puts the server's copy at the top. Uploads are
// not optimistic.
func (c *Controller) CreatePost(ctx context.Context, content, imagePath string) (*api.Post, error) {
	var created *api.Post
	validate := func() error {
		if strings.TrimSpace(content) == "" && imagePath == "" {
			return apperrors.Validation("post", "needs content or an image")
		}
		return nil
	}

	err := execute(c, ctx, nil, validate, optimistic.Mutation[*api.Post]{
		Name: OpCreatePost,
		Request: func(ctx context.Context) (*api.Post, error) {
			return c.backend.CreatePost(ctx, content, imagePath)
		},
		Reconcile: func(p *api.Post) {
			p.Author = c.store.hydrate(p.Author)
			c.store.posts = append([]api.Post{p.Clone()}, c.store.posts...)
			c.store.rememberPost(*p)
			created = p
		},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeletePost removes a post at once and puts it back at its old position if
// the server refuses
func (c *Controller) DeletePost(ctx context.Context, postID string) error {
	var (
		removed *api.Post
		index   = -1
	)

	return execute(c, ctx, nil, nil, optimistic.Mutation[struct{}]{
		Name: OpDeletePost,
		Apply: func() {
			index = c.store.postIndex(postID)
			if index < 0 {
				return
			}
			p := c.store.posts[index]
			removed = &p
			c.store.posts = append(c.store.posts[:index:index], c.store.posts[index+1:]...)
		},
		Request: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, c.backend.DeletePost(ctx, postID)
		},
		Rollback: func(error) {
			if removed == nil || c.store.postIndex(postID) >= 0 {
				return
			}
			at := min(index, len(c.store.posts))
			posts := make([]api.Post, 0, len(c.store.posts)+1)
			posts = append(posts, c.store.posts[:at]...)
			posts = append(posts, *removed)
			c.store.posts = append(posts, c.store.posts[at:]...)
		},
	})
}

// ToggleLikePost flips the current user's like on a post
func (c *Controller) ToggleLikePost(ctx context.Context, postID string) error {
	var (
		uid            string
		applied, liked bool
	)

	return execute(c, ctx, &uid, nil, optimistic.Mutation[*api.Post]{
		Name: OpLikePost,
		Apply: func() {
			if p := c.store.post(postID); p != nil {
				applied, liked = true, p.Likes.Toggle(uid)
			}
		},
		Request: func(ctx context.Context) (*api.Post, error) {
			return c.backend.LikePost(ctx, postID)
		},
		Reconcile: func(server *api.Post) {
			if server.ID == "" {
				if p := c.store.post(postID); p != nil {
					p.Likes = server.Likes.Clone()
				}
				return
			}
			c.store.replacePost(server.Clone())
		},
		Rollback: func(error) {
			if p := c.store.post(postID); p != nil && applied {
				setMember(&p.Likes, uid, !liked)
			}
		},
	})
}

// setMember forces membership of id in set
func setMember(set *api.IDSet, id string, on bool) {
	if on {
		set.Add(id)
	} else {
		set.Remove(id)
	}
}
