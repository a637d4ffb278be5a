// Package service implements the commands: each service drives the
// controllers for one area and prints the result.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/reelhouse/cli/pkg/analytics"
	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/config"
	"github.com/reelhouse/cli/pkg/credentials"
	"github.com/reelhouse/cli/pkg/engagement"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/media"
	"github.com/reelhouse/cli/pkg/metrics"
	"github.com/reelhouse/cli/pkg/reels"
	"github.com/reelhouse/cli/pkg/session"
	"github.com/reelhouse/cli/pkg/settings"
)

// Backend is every endpoint the commands use
type Backend interface {
	engagement.Backend
	reels.Lister
	analytics.Recorder
	CurrentUser(ctx context.Context) (*api.User, error)
	GetUser(ctx context.Context, userID string) (*api.User, error)
	SetToken(token string)
}

// App holds the per-process wiring shared by every command
type App struct {
	Backend    Backend
	Settings   *settings.Settings
	Session    session.Session
	Engagement *engagement.Controller
	Metrics    *metrics.Metrics
	Beacon     *analytics.Beacon

	// Media loads reel videos. Nil disables playback.
	Media reels.MediaLoader
	// Credentials is where login metadata is written; empty skips it
	CredentialsPath string
	Now             func() time.Time

	mu      sync.Mutex
	notices []engagement.Notice
}

// NewApp wires the engagement controller to backend and sess
func NewApp(backend Backend, st *settings.Settings, sess session.Session, m *metrics.Metrics) *App {
	a := &App{
		Backend:  backend,
		Settings: st,
		Session:  sess,
		Metrics:  m,
		Now:      time.Now,
	}
	a.Engagement = engagement.New(backend, sess,
		engagement.WithNotifier(engagement.NotifierFunc(a.notify)),
		engagement.WithObserver(m),
	)
	return a
}

// Default builds the App from configuration, the settings file and the
// stored login
func Default() *App {
	st := settings.Default()
	src := &tokenSource{settings: st.TokenSource(), file: credentials.NewFileSource()}

	client := api.Default()
	if tok, _ := src.Token(); tok != "" {
		client.SetToken(tok)
	}

	a := NewApp(client, st, session.NewJWT(src, client), metrics.Get())
	a.Beacon = analytics.New(client, config.GetBool("analytics.enabled"))
	timeout := time.Duration(config.GetInt("api.timeout")) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	a.Media = media.NewDownloader(config.GetString("api.base_url"), timeout, config.GetString("reels.cache_dir"), st.VideoQuality)
	a.CredentialsPath = config.GetCredentialsPath()
	return a
}

// Close cancels outstanding engagement requests
func (a *App) Close() {
	a.Engagement.Close()
}

func (a *App) notify(n engagement.Notice) {
	logger.Warn("Operation failed", "op", n.Op, "kind", n.Kind, "error", n.Message)
	a.mu.Lock()
	a.notices = append(a.notices, n)
	a.mu.Unlock()
}

// Notices returns every notice raised so far
func (a *App) Notices() []engagement.Notice {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]engagement.Notice(nil), a.notices...)
}

func (a *App) lastNotice() (engagement.Notice, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.notices) == 0 {
		return engagement.Notice{}, false
	}
	return a.notices[len(a.notices)-1], true
}

// me returns the current user id, or "" when logged out
func (a *App) me() string {
	uid, _ := a.Session.CurrentUserID()
	return uid
}

// tokenSource reads the token from settings and falls back to the
// credentials file. Clearing removes both.
type tokenSource struct {
	settings *settings.TokenSource
	file     *credentials.FileSource
}

func (t *tokenSource) Token() (string, error) {
	if tok, _ := t.settings.Token(); tok != "" {
		return tok, nil
	}
	return t.file.Token()
}

func (t *tokenSource) Clear() error {
	if err := t.settings.Clear(); err != nil {
		return err
	}
	return t.file.Clear()
}
