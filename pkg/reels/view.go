package reels

import "github.com/reelhouse/cli/pkg/api"

// EmptyState explains an empty feed
type EmptyState string

const (
	EmptyNone      EmptyState = ""
	EmptyFeed      EmptyState = "No reels yet"
	EmptyFollowing EmptyState = "No reels from followed users"
	EmptyMine      EmptyState = "You have not posted any reels"
)

// ItemView is one reel as the host should draw it
type ItemView struct {
	Reel         api.Reel
	State        MediaState
	PausedByUser bool
	Err          error
}

// View is a snapshot of the controller
type View struct {
	Filter      Filter
	Items       []ItemView
	Active      int
	Page        int
	HasMore     bool
	Loading     bool
	DataSaver   bool
	Muted       bool
	AudioLocked bool
	Err         error
	Empty       EmptyState
}

// ActiveItem returns the active item, if any
func (v View) ActiveItem() (ItemView, bool) {
	if v.Active < 0 || v.Active >= len(v.Items) {
		return ItemView{}, false
	}
	return v.Items[v.Active], true
}

// View returns a snapshot of the feed
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Filter:      c.filter,
		Items:       make([]ItemView, len(c.items)),
		Active:      c.active,
		Page:        c.page,
		HasMore:     c.hasMore,
		Loading:     c.loading,
		DataSaver:   c.dataSaver,
		Muted:       c.muted,
		AudioLocked: c.audioLocked,
		Err:         c.lastErr,
	}
	for i, it := range c.items {
		v.Items[i] = ItemView{
			Reel:         it.reel.Clone(),
			State:        it.state,
			PausedByUser: it.pausedByUser,
			Err:          it.err,
		}
	}
	v.Empty = c.emptyState()
	return v
}

// emptyState requires mu held. An error is not an empty feed.
func (c *Controller) emptyState() EmptyState {
	if len(c.items) > 0 || c.loading || c.hasMore || c.lastErr != nil || c.filter == "" {
		return EmptyNone
	}
	switch c.filter {
	case Following:
		return EmptyFollowing
	case MyReels:
		return EmptyMine
	}
	return EmptyFeed
}
