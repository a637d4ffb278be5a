package engagement

import (
	"context"

	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/optimistic"
)

// Follow makes the current user follow userID
func (c *Controller) Follow(ctx context.Context, userID string) error {
	return c.setFollowing(ctx, userID, true)
}

// Unfollow makes the current user stop following userID
func (c *Controller) Unfollow(ctx context.Context, userID string) error {
	return c.setFollowing(ctx, userID, false)
}

// ToggleFollow follows or unfollows based on the cached relation, and
// reports whether the user is followed afterwards
func (c *Controller) ToggleFollow(ctx context.Context, userID string) (bool, error) {
	uid, ok := c.session.CurrentUserID()
	follow := true
	if ok {
		c.store.mu.Lock()
		follow = !c.store.follows(uid, userID)
		c.store.mu.Unlock()
	}
	if err := c.setFollowing(ctx, userID, follow); err != nil {
		return !follow, err
	}
	return follow, nil
}

// IsFollowing reports the cached relation from the current user to userID
func (c *Controller) IsFollowing(userID string) bool {
	uid, ok := c.session.CurrentUserID()
	if !ok {
		return false
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.follows(uid, userID)
}

func (c *Controller) setFollowing(ctx context.Context, userID string, follow bool) error {
	var (
		uid   string
		prior bool
	)
	op := OpFollow
	if !follow {
		op = OpUnfollow
	}
	validate := func() error {
		if userID == "" {
			return apperrors.Validation("user", "is required")
		}
		if id, _ := c.session.CurrentUserID(); id == userID {
			return apperrors.Validation("user", "cannot follow yourself")
		}
		return nil
	}

	return execute(c, ctx, &uid, validate, optimistic.Mutation[struct{}]{
		Name: op,
		Apply: func() {
			prior = c.store.follows(uid, userID)
			c.store.setFollow(uid, userID, follow)
		},
		Request: func(ctx context.Context) (struct{}, error) {
			if follow {
				return struct{}{}, c.backend.Follow(ctx, userID)
			}
			return struct{}{}, c.backend.Unfollow(ctx, userID)
		},
		Reconcile: func(struct{}) {},
		Rollback: func(error) {
			c.store.setFollow(uid, userID, prior)
		},
	})
}
