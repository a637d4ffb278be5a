package engagement

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelhouse/cli/pkg/api"
)

const tempIDPrefix = "temp-"

// NewTempID returns a placeholder id for an entity the server has not
// assigned one yet. The clock reading orders ids; the uuid keeps two calls in
// the same tick apart.
func NewTempID(now time.Time) string {
	return tempIDPrefix + strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()
}

// IsTempID reports whether id is a placeholder
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Store is the in-memory view state shared by every operation. All fields
// are guarded by mu.
type Store struct {
	mu sync.Mutex

	posts  []api.Post
	reels  []api.Reel
	users  map[string]api.User
	me     *api.User
	drafts map[Target]string
	modal  *Modal
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		users:  map[string]api.User{},
		drafts: map[Target]string{},
	}
}

func (s *Store) postIndex(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) post(id string) *api.Post {
	if i := s.postIndex(id); i >= 0 {
		return &s.posts[i]
	}
	return nil
}

func (s *Store) reel(id string) *api.Reel {
	for i := range s.reels {
		if s.reels[i].ID == id {
			return &s.reels[i]
		}
	}
	return nil
}

// comments returns the comment list owned by a post or reel
func (s *Store) comments(kind TargetKind, id string) *[]api.Comment {
	switch kind {
	case TargetPost:
		if p := s.post(id); p != nil {
			return &p.Comments
		}
	case TargetReel:
		if r := s.reel(id); r != nil {
			return &r.Comments
		}
	}
	return nil
}

func findComment(list []api.Comment, id string) *api.Comment {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func findRecomment(list []api.Recomment, id string) *api.Recomment {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func removeComment(list []api.Comment, id string) []api.Comment {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func removeRecomment(list []api.Recomment, id string) []api.Recomment {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// rememberUser caches u, keeping a known follow graph when u carries none
func (s *Store) rememberUser(u api.User) {
	if u.ID == "" {
		return
	}
	if known, ok := s.users[u.ID]; ok {
		if !u.Hydrated() {
			u.Username = known.Username
			u.ProfilePicture = known.ProfilePicture
		}
		if u.Followers.Len() == 0 && known.Followers.Len() > 0 {
			u.Followers = known.Followers
		}
		if u.Following.Len() == 0 && known.Following.Len() > 0 {
			u.Following = known.Following
		}
	}
	s.users[u.ID] = u.Clone()
}

// hydrate fills a bare-id user from the cache
func (s *Store) hydrate(u api.User) api.User {
	if u.Hydrated() || u.ID == "" {
		return u
	}
	if known, ok := s.users[u.ID]; ok {
		return known.Clone()
	}
	if s.me != nil && s.me.ID == u.ID {
		return s.me.Clone()
	}
	return u
}

func (s *Store) rememberPost(p api.Post) {
	s.rememberUser(p.Author)
	for _, c := range p.Comments {
		s.rememberUser(c.User)
		for _, r := range c.Recomments {
			s.rememberUser(r.User)
		}
	}
}

func (s *Store) rememberReel(r api.Reel) {
	s.rememberUser(r.Author)
	for _, c := range r.Comments {
		s.rememberUser(c.User)
	}
}

// mergeComments adopts the server's list and re-appends placeholders of other
// submissions still in flight, minus the one being settled
func mergeComments(server, local []api.Comment, settled string) []api.Comment {
	out := make([]api.Comment, 0, len(server)+1)
	out = append(out, server...)
	for _, c := range local {
		if IsTempID(c.ID) && c.ID != settled && findComment(out, c.ID) == nil {
			out = append(out, c)
		}
	}
	return out
}

// keepAuthor keeps the local author when the server sent a bare id
func keepAuthor(server, local api.User) api.User {
	if !server.Hydrated() && server.ID == local.ID {
		return local
	}
	return server
}

func (s *Store) replacePost(server api.Post) {
	p := s.post(server.ID)
	if p == nil {
		return
	}
	server.Author = keepAuthor(server.Author, p.Author)
	server.Comments = mergeComments(s.hydrateComments(server.Comments), p.Comments, "")
	*p = server
	s.rememberPost(server)
}

func (s *Store) replaceReel(server api.Reel, settled string) {
	r := s.reel(server.ID)
	if r == nil {
		return
	}
	server.Author = keepAuthor(server.Author, r.Author)
	server.Comments = mergeComments(s.hydrateComments(server.Comments), r.Comments, settled)
	*r = server
	s.rememberReel(server)
}

func (s *Store) hydrateComments(list []api.Comment) []api.Comment {
	for i := range list {
		list[i].User = s.hydrate(list[i].User)
		for j := range list[i].Recomments {
			list[i].Recomments[j].User = s.hydrate(list[i].Recomments[j].User)
		}
	}
	return list
}

// mergeComment applies a server comment onto the local one. Recomments are
// kept when the server omitted them.
func (s *Store) mergeComment(local *api.Comment, server api.Comment) {
	server.User = s.hydrate(keepAuthor(server.User, local.User))
	if len(server.Recomments) == 0 && len(local.Recomments) > 0 {
		server.Recomments = local.Recomments
		if server.RecommentCount < len(local.Recomments) {
			server.RecommentCount = len(local.Recomments)
		}
	} else {
		for i := range server.Recomments {
			server.Recomments[i].User = s.hydrate(server.Recomments[i].User)
		}
	}
	*local = server
}

func (s *Store) mergeRecomment(local *api.Recomment, server api.Recomment) {
	server.User = s.hydrate(keepAuthor(server.User, local.User))
	*local = server
}

// setFollow makes follower's following and followee's followers agree with
// on in every cached copy of either user
func (s *Store) setFollow(follower, followee string, on bool) {
	apply := func(u *api.User) {
		switch u.ID {
		case follower:
			if on {
				u.Following.Add(followee)
			} else {
				u.Following.Remove(followee)
			}
		case followee:
			if on {
				u.Followers.Add(follower)
			} else {
				u.Followers.Remove(follower)
			}
		}
	}

	for _, id := range []string{follower, followee} {
		u, ok := s.users[id]
		if !ok {
			u = api.User{ID: id, Followers: api.IDSet{}, Following: api.IDSet{}}
		}
		apply(&u)
		s.users[id] = u
	}
	if s.me != nil {
		apply(s.me)
	}

	applyComments := func(list []api.Comment) {
		for i := range list {
			apply(&list[i].User)
			for j := range list[i].Recomments {
				apply(&list[i].Recomments[j].User)
			}
		}
	}
	for i := range s.posts {
		apply(&s.posts[i].Author)
		applyComments(s.posts[i].Comments)
	}
	for i := range s.reels {
		apply(&s.reels[i].Author)
		applyComments(s.reels[i].Comments)
	}
}

// follows reports the cached relation follower -> followee
func (s *Store) follows(follower, followee string) bool {
	if s.me != nil && s.me.ID == follower {
		return s.me.Following.Has(followee)
	}
	if u, ok := s.users[follower]; ok && u.Following.Has(followee) {
		return true
	}
	if u, ok := s.users[followee]; ok {
		return u.Followers.Has(follower)
	}
	return false
}
