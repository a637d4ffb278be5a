package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/optimistic"
	"github.com/reelhouse/cli/pkg/session"
)

var errNetwork = errors.New("connection reset")

// fakeBackend answers from function fields; a nil field fails the test if
// called
type fakeBackend struct {
	t     *testing.T
	mu    sync.Mutex
	calls []string

	listPosts     func() ([]api.Post, error)
	createPost    func(content, image string) (*api.Post, error)
	deletePost    func(id string) error
	likePost      func(id string) (*api.Post, error)
	commentOnPost func(ctx context.Context, id, text string) ([]api.Comment, error)
	likeComment   func(postID, commentID string) (*api.Comment, error)
	recomment     func(postID, commentID, text string) (*api.Recomment, error)
	likeRecomment func(postID, commentID, recommentID string) (*api.Recomment, error)
	likeReel      func(id string) (*api.Reel, error)
	commentOnReel func(id, text string) (*api.Reel, error)
	follow        func(id string) error
	unfollow      func(id string) error
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) missing(name string) {
	f.t.Helper()
	f.t.Errorf("unexpected backend call %s", name)
}

func (f *fakeBackend) ListPosts(context.Context) ([]api.Post, error) {
	f.record("ListPosts")
	if f.listPosts == nil {
		f.missing("ListPosts")
		return nil, errNetwork
	}
	return f.listPosts()
}

func (f *fakeBackend) CreatePost(_ context.Context, content, image string) (*api.Post, error) {
	f.record("CreatePost")
	if f.createPost == nil {
		f.missing("CreatePost")
		return nil, errNetwork
	}
	return f.createPost(content, image)
}

func (f *fakeBackend) DeletePost(_ context.Context, id string) error {
	f.record("DeletePost")
	if f.deletePost == nil {
		f.missing("DeletePost")
		return errNetwork
	}
	return f.deletePost(id)
}

func (f *fakeBackend) LikePost(_ context.Context, id string) (*api.Post, error) {
	f.record("LikePost")
	if f.likePost == nil {
		f.missing("LikePost")
		return nil, errNetwork
	}
	return f.likePost(id)
}

func (f *fakeBackend) CommentOnPost(ctx context.Context, id, text string) ([]api.Comment, error) {
	f.record("CommentOnPost")
	if f.commentOnPost == nil {
		f.missing("CommentOnPost")
		return nil, errNetwork
	}
	return f.commentOnPost(ctx, id, text)
}

func (f *fakeBackend) LikeComment(_ context.Context, postID, commentID string) (*api.Comment, error) {
	f.record("LikeComment")
	if f.likeComment == nil {
		f.missing("LikeComment")
		return nil, errNetwork
	}
	return f.likeComment(postID, commentID)
}

func (f *fakeBackend) Recomment(_ context.Context, postID, commentID, text string) (*api.Recomment, error) {
	f.record("Recomment")
	if f.recomment == nil {
		f.missing("Recomment")
		return nil, errNetwork
	}
	return f.recomment(postID, commentID, text)
}

func (f *fakeBackend) LikeRecomment(_ context.Context, postID, commentID, recommentID string) (*api.Recomment, error) {
	f.record("LikeRecomment")
	if f.likeRecomment == nil {
		f.missing("LikeRecomment")
		return nil, errNetwork
	}
	return f.likeRecomment(postID, commentID, recommentID)
}

func (f *fakeBackend) LikeReel(_ context.Context, id string) (*api.Reel, error) {
	f.record("LikeReel")
	if f.likeReel == nil {
		f.missing("LikeReel")
		return nil, errNetwork
	}
	return f.likeReel(id)
}

func (f *fakeBackend) CommentOnReel(_ context.Context, id, text string) (*api.Reel, error) {
	f.record("CommentOnReel")
	if f.commentOnReel == nil {
		f.missing("CommentOnReel")
		return nil, errNetwork
	}
	return f.commentOnReel(id, text)
}

func (f *fakeBackend) Follow(_ context.Context, id string) error {
	f.record("Follow")
	if f.follow == nil {
		f.missing("Follow")
		return errNetwork
	}
	return f.follow(id)
}

func (f *fakeBackend) Unfollow(_ context.Context, id string) error {
	f.record("Unfollow")
	if f.unfollow == nil {
		f.missing("Unfollow")
		return errNetwork
	}
	return f.unfollow(id)
}

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *noticeLog) Notify(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *noticeLog) All() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.notices...)
}

type outcomeLog struct {
	mu  sync.Mutex
	got map[string][]optimistic.Outcome
}

func (o *outcomeLog) Observe(op string, outcome optimistic.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.got == nil {
		o.got = map[string][]optimistic.Outcome{}
	}
	o.got[op] = append(o.got[op], outcome)
}

func (o *outcomeLog) For(op string) []optimistic.Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]optimistic.Outcome(nil), o.got[op]...)
}

type harness struct {
	ctrl     *Controller
	backend  *fakeBackend
	notices  *noticeLog
	outcomes *outcomeLog
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func me() *api.User {
	return &api.User{ID: "u1", Username: "ann", Followers: api.IDSet{}, Following: api.IDSet{}}
}

// newHarness builds a controller logged in as u1 (nil user: logged out)
func newHarness(t *testing.T, user *api.User) *harness {
	t.Helper()
	h := &harness{
		backend:  &fakeBackend{t: t},
		notices:  &noticeLog{},
		outcomes: &outcomeLog{},
	}
	h.ctrl = New(h.backend, session.NewStatic(user),
		WithNotifier(h.notices),
		WithObserver(h.outcomes),
		WithClock(func() time.Time { return fixedNow }),
	)
	t.Cleanup(h.ctrl.Close)
	if user != nil {
		if _, err := h.ctrl.LoadCurrentUser(context.Background()); err != nil {
			t.Fatalf("load current user: %v", err)
		}
	}
	return h
}

// seedPosts loads posts through the backend
func (h *harness) seedPosts(t *testing.T, posts ...api.Post) {
	t.Helper()
	h.backend.listPosts = func() ([]api.Post, error) {
		return api.NormalizePosts(posts), nil
	}
	if err := h.ctrl.LoadPosts(context.Background()); err != nil {
		t.Fatalf("seed posts: %v", err)
	}
}

func post(id, authorID string) api.Post {
	return api.Post{
		ID:     id,
		Author: api.User{ID: authorID, Username: "user-" + authorID},
		Likes:  api.IDSet{},
	}
}
