package reels

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/reelhouse/cli/pkg/api"
)

func makeReels(prefix string, n int, authorID string) []api.Reel {
	out := make([]api.Reel, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = api.Reel{
			ID:       id,
			Author:   api.User{ID: authorID, Username: "user-" + authorID},
			VideoURL: "https://cdn.test/" + id + ".mp4",
			Likes:    api.IDSet{},
			Comments: []api.Comment{},
		}
	}
	return out
}

// pageSource serves pages from a fixed list; gate, when set, blocks each
// fetch until a value is sent
type pageSource struct {
	mu    sync.Mutex
	pages map[int][]api.Reel
	err   error
	gate  chan struct{}
	calls []int
}

func (s *pageSource) Fetch(ctx context.Context, page, limit int) (Page, error) {
	s.mu.Lock()
	s.calls = append(s.calls, page)
	gate, err, reels := s.gate, s.err, s.pages[page]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Page{}, ctx.Err()
		}
	}
	if err != nil {
		return Page{}, err
	}
	return Page{Reels: reels, Raw: len(reels)}, nil
}

func (s *pageSource) Calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.calls...)
}

func (s *pageSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

type fakeHandle struct {
	url      string
	mu       sync.Mutex
	released bool
}

func (h *fakeHandle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	return nil
}

func (h *fakeHandle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

type fakeLoader struct {
	mu      sync.Mutex
	fail    map[string]bool
	handles map[string]*fakeHandle
	loads   []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{fail: map[string]bool{}, handles: map[string]*fakeHandle{}}
}

func (l *fakeLoader) Load(_ context.Context, url string) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads = append(l.loads, url)
	if l.fail[url] {
		return nil, errors.New("404")
	}
	h := &fakeHandle{url: url}
	l.handles[url] = h
	return h, nil
}

func (l *fakeLoader) Loads() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.loads...)
}

func (l *fakeLoader) Handle(url string) *fakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handles[url]
}

type playCall struct {
	ID    string
	Muted bool
}

// fakePlayer refuses sound until unlocked when blockSound is set
type fakePlayer struct {
	mu         sync.Mutex
	blockSound bool
	unlocked   bool
	plays      []playCall
	pauses     []string
}

func (p *fakePlayer) Play(id string, muted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !muted && p.blockSound && !p.unlocked {
		return ErrAutoplayBlocked
	}
	p.plays = append(p.plays, playCall{ID: id, Muted: muted})
	return nil
}

func (p *fakePlayer) Pause(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses = append(p.pauses, id)
}

func (p *fakePlayer) UnlockAudio() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unlocked = true
}

func (p *fakePlayer) LastPlay() playCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.plays) == 0 {
		return playCall{}
	}
	return p.plays[len(p.plays)-1]
}

type fakePrefs struct {
	on bool
}

func (p *fakePrefs) DataSaver() bool { return p.on }
func (p *fakePrefs) SetDataSaver(on bool) error {
	p.on = on
	return nil
}

type feed struct {
	ctrl    *Controller
	sources map[Filter]*pageSource
	loader  *fakeLoader
	player  *fakePlayer
}

func newFeed(t *testing.T, opts ...Option) *feed {
	t.Helper()
	f := &feed{
		sources: map[Filter]*pageSource{
			ForYou:    {pages: map[int][]api.Reel{}},
			Following: {pages: map[int][]api.Reel{}},
			MyReels:   {pages: map[int][]api.Reel{}},
		},
		loader: newFakeLoader(),
		player: &fakePlayer{},
	}
	factory := func(filter Filter) (Source, error) {
		return f.sources[filter], nil
	}
	f.ctrl = New(DefaultConfig(), factory, f.loader, f.player, opts...)
	t.Cleanup(f.ctrl.Close)
	return f
}

func (f *feed) states() []MediaState {
	v := f.ctrl.View()
	out := make([]MediaState, len(v.Items))
	for i, it := range v.Items {
		out[i] = it.State
	}
	return out
}
