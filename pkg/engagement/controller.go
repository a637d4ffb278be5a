// Package engagement keeps posts, reels, comments and the follow graph in
// memory and applies likes, comments and follows optimistically: the local
// state changes first, the request follows, and the server's answer either
// replaces the optimistic state or the change is rolled back.
//
// Two requests against the same entity are not queued. Whichever response
// arrives last is the one that sticks.
package engagement

import (
	"context"
	"sync"
	"time"

	"github.com/reelhouse/cli/pkg/api"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/optimistic"
	"github.com/reelhouse/cli/pkg/session"
)

// Operation names, used for notices and metrics
const (
	OpLoadPosts       = "load_posts"
	OpCreatePost      = "create_post"
	OpDeletePost      = "delete_post"
	OpLikePost        = "like_post"
	OpComment         = "comment"
	OpLikeComment     = "like_comment"
	OpRecomment       = "recomment"
	OpLikeRecomment   = "like_recomment"
	OpLikeReel        = "like_reel"
	OpReelComment     = "reel_comment"
	OpFollow          = "follow"
	OpUnfollow        = "unfollow"
	OpLoadCurrentUser = "load_current_user"
)

// Backend is the part of the API client the controller calls
type Backend interface {
	ListPosts(ctx context.Context) ([]api.Post, error)
	CreatePost(ctx context.Context, content, imagePath string) (*api.Post, error)
	DeletePost(ctx context.Context, postID string) error
	LikePost(ctx context.Context, postID string) (*api.Post, error)
	CommentOnPost(ctx context.Context, postID, text string) ([]api.Comment, error)
	LikeComment(ctx context.Context, postID, commentID string) (*api.Comment, error)
	Recomment(ctx context.Context, postID, commentID, text string) (*api.Recomment, error)
	LikeRecomment(ctx context.Context, postID, commentID, recommentID string) (*api.Recomment, error)
	LikeReel(ctx context.Context, reelID string) (*api.Reel, error)
	CommentOnReel(ctx context.Context, reelID, text string) (*api.Reel, error)
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
}

// Notice is a user-visible message about a failed operation
type Notice struct {
	Op      string
	Kind    apperrors.Kind
	Message string
	Err     error
}

// LoginRequired reports whether the notice should lead to the login flow
func (n Notice) LoginRequired() bool {
	return n.Kind == apperrors.KindUnauthenticated
}

// Notifier shows notices to the user
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Controller runs engagement operations against a Store
type Controller struct {
	store    *Store
	backend  Backend
	session  session.Session
	notifier Notifier
	observer optimistic.Observer
	now      func() time.Time

	closeMu  sync.RWMutex
	closed   bool
	nextOp   int
	inflight map[int]context.CancelFunc
}

// Option configures a Controller
type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithObserver reports every mutation outcome, e.g. to metrics
func WithObserver(o optimistic.Observer) Option {
	return func(c *Controller) { c.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New returns a controller with an empty store
func New(backend Backend, sess session.Session, opts ...Option) *Controller {
	c := &Controller{
		store:    NewStore(),
		backend:  backend,
		session:  sess,
		now:      time.Now,
		inflight: map[int]context.CancelFunc{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close tears the view down. In-flight requests are cancelled and responses
// arriving afterwards are dropped.
func (c *Controller) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	c.closed = true
	for id, cancel := range c.inflight {
		cancel()
		delete(c.inflight, id)
	}
}

func (c *Controller) isClosed() bool {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	return c.closed
}

// opContext ends when either the caller's ctx ends or the controller closes
func (c *Controller) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		cancel()
		return ctx, cancel
	}
	id := c.nextOp
	c.nextOp++
	c.inflight[id] = cancel

	return ctx, func() {
		c.closeMu.Lock()
		delete(c.inflight, id)
		c.closeMu.Unlock()
		cancel()
	}
}

func (c *Controller) notify(op string, err error) {
	if c.notifier == nil || err == nil {
		return
	}
	e := apperrors.Categorize(err)
	c.notifier.Notify(Notice{Op: op, Kind: e.Kind, Message: e.Error(), Err: err})
}

// requireUser resolves the current user id or rejects the operation
func (c *Controller) requireUser() (string, error) {
	uid, ok := c.session.CurrentUserID()
	if !ok {
		return "", apperrors.Unauthenticated("Log in to continue")
	}
	return uid, nil
}

// execute runs m with the store locked around every local step, after
// checking the session and then validate. The resolved user id is written to
// *uid before Apply runs.
func execute[T any](c *Controller, ctx context.Context, uid *string, validate func() error, m optimistic.Mutation[T]) error {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	runner := &optimistic.Runner{
		Observer:  c.observer,
		Discarded: c.isClosed,
		Precheck: func() error {
			id, err := c.requireUser()
			if err == nil && validate != nil {
				err = validate()
			}
			if err != nil {
				logger.Debug("Operation rejected", "op", m.Name, "error", err)
				c.notify(m.Name, err)
				return err
			}
			if uid != nil {
				*uid = id
			}
			return nil
		},
	}

	m.Apply = c.locked(m.Apply)
	request := m.Request
	m.Request = func(ctx context.Context) (T, error) {
		v, err := request(ctx)
		// a caller deadline or cancel is a failed request, not a teardown
		if err != nil && ctx.Err() != nil && apperrors.KindOf(err) == apperrors.KindUnknown {
			err = apperrors.NetworkFailure(err)
		}
		return v, err
	}
	if reconcile := m.Reconcile; reconcile != nil {
		m.Reconcile = func(v T) {
			c.store.mu.Lock()
			defer c.store.mu.Unlock()
			if c.isClosed() {
				logger.Debug("Dropping reconcile after close", "op", m.Name)
				return
			}
			reconcile(v)
			c.store.syncModal()
		}
	}
	rollback := m.Rollback
	m.Rollback = func(err error) {
		if rollback != nil {
			c.store.mu.Lock()
			if !c.isClosed() {
				rollback(err)
				c.store.syncModal()
			}
			c.store.mu.Unlock()
		}
		c.notify(m.Name, err)
	}

	return optimistic.Execute(ctx, runner, m)
}

func (c *Controller) locked(fn func()) func() {
	if fn == nil {
		return nil
	}
	return func() {
		c.store.mu.Lock()
		defer c.store.mu.Unlock()
		fn()
		c.store.syncModal()
	}
}

// LoadCurrentUser resolves the logged-in user and caches their profile
func (c *Controller) LoadCurrentUser(ctx context.Context) (*api.User, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	user, err := c.session.CurrentUser(ctx)
	if err != nil {
		c.notify(OpLoadCurrentUser, err)
		return nil, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	me := user.Clone()
	c.store.me = &me
	c.store.rememberUser(me)
	return user, nil
}

// Me returns the cached current user
func (c *Controller) Me() (api.User, bool) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.store.me == nil {
		return api.User{}, false
	}
	return c.store.me.Clone(), true
}

// User returns the cached copy of a user
func (c *Controller) User(id string) (api.User, bool) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	u, ok := c.store.users[id]
	if !ok {
		return api.User{}, false
	}
	return u.Clone(), true
}

// CacheUser adds u to the user cache
func (c *Controller) CacheUser(u api.User) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.rememberUser(u)
}

// author builds the placeholder user for optimistic entities
func (s *Store) author(uid string) api.User {
	if s.me != nil && s.me.ID == uid {
		return s.me.Clone()
	}
	return s.hydrate(api.User{ID: uid, Followers: api.IDSet{}, Following: api.IDSet{}})
}
