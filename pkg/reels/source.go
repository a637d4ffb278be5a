package reels

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/reelhouse/cli/pkg/api"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/session"
)

// Filter selects which reels the feed shows
type Filter string

const (
	ForYou    Filter = "for-you"
	Following Filter = "following"
	MyReels   Filter = "mine"
)

// Filters lists every filter in menu order
var Filters = []Filter{ForYou, Following, MyReels}

// ParseFilter accepts a filter name
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "for-you", "foryou", "for_you":
		return ForYou, nil
	case "following":
		return Following, nil
	case "mine", "my-reels", "my_reels":
		return MyReels, nil
	}
	return "", apperrors.Validation("filter", "must be one of for-you, following, mine")
}

// Page is one fetched slice. Raw is how many items the server returned before
// client-side filtering; end of data is judged on Raw.
type Page struct {
	Reels []api.Reel
	Raw   int
}

// Source fetches pages for one filter
type Source interface {
	Fetch(ctx context.Context, page, limit int) (Page, error)
}

// Lister is the reel listing endpoint
type Lister interface {
	ListReels(ctx context.Context, page, limit int, feed string) ([]api.Reel, error)
}

// NewSource builds the source for filter. myReelsLimit bounds the single bulk
// fetch the "mine" filter paginates over.
func NewSource(filter Filter, lister Lister, sess session.Session, myReelsLimit int) (Source, error) {
	switch filter {
	case ForYou:
		return &forYouSource{lister: lister}, nil
	case Following:
		return &followingSource{lister: lister, session: sess}, nil
	case MyReels:
		return &myReelsSource{lister: lister, session: sess, fetchLimit: myReelsLimit}, nil
	}
	return nil, fmt.Errorf("unknown filter %q", filter)
}

type forYouSource struct {
	lister Lister
}

func (s *forYouSource) Fetch(ctx context.Context, page, limit int) (Page, error) {
	reels, err := s.lister.ListReels(ctx, page, limit, "")
	if err != nil {
		return Page{}, err
	}
	return Page{Reels: reels, Raw: len(reels)}, nil
}

// followingSource is the server's following feed minus the caller's own reels
type followingSource struct {
	lister  Lister
	session session.Session
}

func (s *followingSource) Fetch(ctx context.Context, page, limit int) (Page, error) {
	raw, err := s.lister.ListReels(ctx, page, limit, "following")
	if err != nil {
		return Page{}, err
	}

	uid, _ := s.session.CurrentUserID()
	reels := make([]api.Reel, 0, len(raw))
	for _, r := range raw {
		if uid != "" && r.Author.ID == uid {
			continue
		}
		reels = append(reels, r)
	}
	return Page{Reels: reels, Raw: len(raw)}, nil
}

// myReelsSource has no server endpoint to page over: it fetches up to
// fetchLimit reels once, keeps the caller's, and pages through them in memory
type myReelsSource struct {
	lister     Lister
	session    session.Session
	fetchLimit int

	mu     sync.Mutex
	loaded bool
	mine   []api.Reel
}

func (s *myReelsSource) Fetch(ctx context.Context, page, limit int) (Page, error) {
	uid, ok := s.session.CurrentUserID()
	if !ok {
		return Page{}, apperrors.Unauthenticated("Log in to see your reels")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		all, err := s.lister.ListReels(ctx, 1, s.fetchLimit, "")
		if err != nil {
			return Page{}, err
		}
		for _, r := range all {
			if r.Author.ID == uid {
				s.mine = append(s.mine, r)
			}
		}
		s.loaded = true
		logger.Debug("Loaded own reels", "fetched", len(all), "mine", len(s.mine))
	}

	start := (page - 1) * limit
	if start < 0 || start >= len(s.mine) {
		return Page{Reels: []api.Reel{}}, nil
	}
	end := min(start+limit, len(s.mine))
	out := make([]api.Reel, end-start)
	copy(out, s.mine[start:end])
	return Page{Reels: out, Raw: len(out)}, nil
}
