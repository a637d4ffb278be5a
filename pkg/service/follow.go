package service

import (
	"context"

	"github.com/reelhouse/cli/pkg/formatter"
	"github.com/reelhouse/cli/pkg/output"
)

// FollowService follows and unfollows users
type FollowService struct {
	app *App
}

func NewFollowService(app *App) *FollowService {
	return &FollowService{app: app}
}

// Follow starts following userID
func (fs *FollowService) Follow(ctx context.Context, userID string) error {
	return fs.set(ctx, userID, true)
}

// Unfollow stops following userID
func (fs *FollowService) Unfollow(ctx context.Context, userID string) error {
	return fs.set(ctx, userID, false)
}

func (fs *FollowService) set(ctx context.Context, userID string, follow bool) error {
	if _, err := fs.app.Engagement.LoadCurrentUser(ctx); err != nil {
		return err
	}
	target, err := fs.app.Backend.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	fs.app.Engagement.CacheUser(*target)

	if follow {
		err = fs.app.Engagement.Follow(ctx, userID)
	} else {
		err = fs.app.Engagement.Unfollow(ctx, userID)
	}
	if err != nil {
		return err
	}

	u, _ := fs.app.Engagement.User(userID)
	name := formatter.Username(u)
	if fs.app.Engagement.IsFollowing(userID) {
		output.Success("✓ Following %s (%d followers)", name, u.Followers.Len())
	} else {
		output.Success("✓ Unfollowed %s (%d followers)", name, u.Followers.Len())
	}
	return nil
}
