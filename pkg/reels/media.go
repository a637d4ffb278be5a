package reels

import (
	"context"
	"errors"
	"time"

	"github.com/reelhouse/cli/pkg/api"
)

// MediaState is the lifecycle of one reel's video
type MediaState int

const (
	NotLoaded MediaState = iota
	Loading
	Ready
	Playing
	Paused
	Failed
)

func (s MediaState) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrAutoplayBlocked is returned by a Player that refuses to start with
// sound before the user has interacted
var ErrAutoplayBlocked = errors.New("autoplay with sound blocked")

// Handle is a loaded media payload
type Handle interface {
	Release() error
}

// MediaLoader fetches a reel's video
type MediaLoader interface {
	Load(ctx context.Context, url string) (Handle, error)
}

// Player plays loaded reels. Play on an already playing id updates its mute.
type Player interface {
	Play(id string, muted bool) error
	Pause(id string)
}

// AudioUnlocker is implemented by players that need the user's explicit
// permission before playing sound
type AudioUnlocker interface {
	UnlockAudio()
}

// Sink receives the reels the controller shows, e.g. to keep engagement state
// for them
type Sink interface {
	ReplaceReels([]api.Reel)
	AppendReels([]api.Reel)
}

// Recorder counts fetches and loads
type Recorder interface {
	RecordPage(filter string, err error, elapsed time.Duration)
	RecordMediaLoad(err error)
}

// Preferences persists the data saver flag
type Preferences interface {
	DataSaver() bool
	SetDataSaver(bool) error
}
