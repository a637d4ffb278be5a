// Package session answers "who is the current user" from the locally stored
// token. Claims are decoded without verification; the server remains the
// authority on signatures.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/reelhouse/cli/pkg/api"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/logger"
)

// Session is the single source of the current user for controllers
type Session interface {
	CurrentUserID() (string, bool)
	CurrentUser(ctx context.Context) (*api.User, error)
	IsAuthenticated() bool
	Token() string
	Invalidate() error
}

// TokenSource is where the raw token is stored
type TokenSource interface {
	Token() (string, error)
	Clear() error
}

// UserFetcher resolves the full current user
type UserFetcher interface {
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Claims is the token payload. Backends disagree on the user id claim, so
// id, userId and sub are all accepted.
type Claims struct {
	UserIDClaim string `json:"userId,omitempty"`
	IDClaim     string `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the first populated user id claim
func (c *Claims) UserID() string {
	for _, id := range []string{c.IDClaim, c.UserIDClaim, c.Subject} {
		if id != "" {
			return id
		}
	}
	return ""
}

// Decode structurally checks token and its expiry at now
func Decode(token string, now time.Time) (*Claims, error) {
	if token == "" {
		return nil, apperrors.Unauthenticated("")
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, apperrors.Unauthenticated("Stored session token is malformed")
	}
	if claims.UserID() == "" {
		return nil, apperrors.Unauthenticated("Stored session token has no user id")
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return nil, apperrors.Unauthenticated("Your session has expired")
	}
	return claims, nil
}

// JWTSession reads the token from its source on every call
type JWTSession struct {
	src   TokenSource
	users UserFetcher
	now   func() time.Time

	mu          sync.Mutex
	cached      *api.User
	cachedToken string
}

// NewJWT builds a session over src. users may be nil when CurrentUser is not
// needed.
func NewJWT(src TokenSource, users UserFetcher) *JWTSession {
	return &JWTSession{src: src, users: users, now: time.Now}
}

// SetClock overrides the time used for expiry checks
func (s *JWTSession) SetClock(now func() time.Time) {
	s.now = now
}

// Token returns the raw stored token, "" if none
func (s *JWTSession) Token() string {
	token, err := s.src.Token()
	if err != nil {
		logger.Debug("Token source failed", "error", err)
		return ""
	}
	return token
}

// Claims decodes the stored token
func (s *JWTSession) Claims() (*Claims, error) {
	return Decode(s.Token(), s.now())
}

func (s *JWTSession) CurrentUserID() (string, bool) {
	claims, err := s.Claims()
	if err != nil {
		return "", false
	}
	return claims.UserID(), true
}

func (s *JWTSession) IsAuthenticated() bool {
	_, ok := s.CurrentUserID()
	return ok
}

// CurrentUser fetches the user once per token and serves copies after
func (s *JWTSession) CurrentUser(ctx context.Context) (*api.User, error) {
	token := s.Token()
	if _, err := Decode(token, s.now()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.cached != nil && s.cachedToken == token {
		u := s.cached.Clone()
		s.mu.Unlock()
		return &u, nil
	}
	s.mu.Unlock()

	if s.users == nil {
		return nil, apperrors.New(apperrors.KindUnknown, "no user backend configured", nil)
	}
	user, err := s.users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	cached := user.Clone()
	s.cached = &cached
	s.cachedToken = token
	s.mu.Unlock()

	out := user.Clone()
	return &out, nil
}

// Invalidate drops the cached user and the stored token
func (s *JWTSession) Invalidate() error {
	s.mu.Lock()
	s.cached = nil
	s.cachedToken = ""
	s.mu.Unlock()

	return s.src.Clear()
}

// StaticSession is a fixed in-memory session
type StaticSession struct {
	mu     sync.Mutex
	userID string
	user   *api.User
	token  string
}

// NewStatic returns a session for user. A nil user is a logged-out session.
func NewStatic(user *api.User) *StaticSession {
	s := &StaticSession{}
	if user != nil {
		u := user.Clone()
		s.user = &u
		s.userID = u.ID
		s.token = "static"
	}
	return s
}

func (s *StaticSession) CurrentUserID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != ""
}

func (s *StaticSession) CurrentUser(context.Context) (*api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, apperrors.Unauthenticated("")
	}
	u := s.user.Clone()
	return &u, nil
}

func (s *StaticSession) IsAuthenticated() bool {
	_, ok := s.CurrentUserID()
	return ok
}

func (s *StaticSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *StaticSession) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID, s.user, s.token = "", nil, ""
	return nil
}
