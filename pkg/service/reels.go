package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/reelhouse/cli/pkg/config"
	"github.com/reelhouse/cli/pkg/formatter"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/media"
	"github.com/reelhouse/cli/pkg/output"
	"github.com/reelhouse/cli/pkg/prompter"
	"github.com/reelhouse/cli/pkg/reels"
)

// KeySource yields key presses
type KeySource interface {
	ReadKey() (prompter.Key, error)
}

// WatchOptions configures an interactive reel session
type WatchOptions struct {
	Filter reels.Filter
	Keys   KeySource
	// Prompt reads a line of text for comments. Nil disables commenting.
	Prompt func(label string) (string, error)
	// Player defaults to a terminal player that asks before playing sound
	Player reels.Player
	Out    io.Writer
	// CRLF ends lines with \r\n, needed while the terminal is in raw mode
	CRLF bool
}

const reelHelp = "j/k next/prev · J/K scroll · space pause · m mute · u sound · l like · c comment · d data saver · f filter · r retry · q quit"

// ReelService runs the reel player
type ReelService struct {
	app *App
}

func NewReelService(app *App) *ReelService {
	return &ReelService{app: app}
}

// ReelConfig reads the feed tuning from configuration
func ReelConfig() reels.Config {
	cfg := reels.DefaultConfig()
	if v := config.GetInt("reels.page_size"); v > 0 {
		cfg.PageSize = v
	}
	if v := config.GetInt("reels.prefetch_threshold"); v > 0 {
		cfg.PrefetchThreshold = v
	}
	if v := config.GetInt("reels.retention_window"); v > 0 {
		cfg.RetentionWindow = v
	}
	if v := config.GetFloat("reels.visibility_threshold"); v > 0 {
		cfg.VisibilityThreshold = v
	}
	if v := config.GetFloat("reels.swipe_threshold"); v > 0 {
		cfg.SwipeThreshold = v
	}
	return cfg
}

// Watch plays the reel feed, one key press at a time, until the user quits
// or the key source ends
func (rs *ReelService) Watch(ctx context.Context, opts WatchOptions) error {
	if rs.app.Media == nil {
		return errors.New("no media loader configured")
	}
	out := opts.Out
	if out == nil {
		out = output.Out
	}
	player := opts.Player
	if player == nil {
		player = media.NewTerminalPlayer(out, true)
	}

	if rs.app.Session.IsAuthenticated() {
		if _, err := rs.app.Engagement.LoadCurrentUser(ctx); err != nil {
			logger.Debug("Watching without a profile", "error", err)
		}
	}

	limit := config.GetInt("reels.my_reels_fetch_limit")
	if limit <= 0 {
		limit = 100
	}
	sources := func(f reels.Filter) (reels.Source, error) {
		return reels.NewSource(f, rs.app.Backend, rs.app.Session, limit)
	}

	cfg := ReelConfig()
	nav := &navigator{swipe: cfg.SwipeThreshold}
	r := &reelRenderer{app: rs.app, out: out, crlf: opts.CRLF}
	var ctrl *reels.Controller
	ctrl = reels.New(cfg, sources, rs.app.Media, player,
		reels.WithSink(rs.app.Engagement),
		reels.WithRecorder(rs.app.Metrics),
		reels.WithPreferences(rs.app.Settings),
		reels.WithOnChange(func() { r.render(ctrl.View()) }),
	)
	defer ctrl.Close()

	filter := opts.Filter
	if filter == "" {
		filter = reels.ForYou
	}
	if err := ctrl.SetFilter(filter); err != nil {
		return err
	}
	r.line(reelHelp)

	for {
		ctrl.Wait()
		r.render(ctrl.View())

		key, err := opts.Keys.ReadKey()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if quit := rs.handleKey(ctx, ctrl, nav, key, opts.Prompt, r); quit {
			return nil
		}
	}
}

func (rs *ReelService) handleKey(ctx context.Context, ctrl *reels.Controller, nav *navigator, key prompter.Key, prompt func(string) (string, error), r *reelRenderer) bool {
	switch key {
	case "q", prompter.KeyEscape, prompter.KeyInterrupt:
		return true
	case "j", prompter.KeyDown:
		nav.flick(ctrl, 1)
	case "k", prompter.KeyUp:
		nav.flick(ctrl, -1)
	case "J":
		nav.scroll(ctrl, scrollStep)
	case "K":
		nav.scroll(ctrl, -scrollStep)
	case prompter.KeySpace:
		ctrl.TogglePause()
	case "m":
		ctrl.ToggleMute()
	case "u":
		ctrl.UnlockAudio()
	case "r":
		ctrl.Retry()
	case "d":
		if err := ctrl.SetDataSaver(!ctrl.View().DataSaver); err != nil {
			r.line(formatter.Error.Sprint("Could not save data saver: " + err.Error()))
		}
	case "f":
		if err := ctrl.SetFilter(nextFilter(ctrl.View().Filter)); err != nil {
			r.line(formatter.Error.Sprint(err.Error()))
		}
		nav.offset = 0
	case "l":
		if it, ok := ctrl.View().ActiveItem(); ok {
			_ = rs.app.Engagement.ToggleLikeReel(ctx, it.Reel.ID)
		}
	case "c":
		it, ok := ctrl.View().ActiveItem()
		if !ok || prompt == nil {
			return false
		}
		text, err := prompt("Comment: ")
		if err != nil || strings.TrimSpace(text) == "" {
			return false
		}
		_ = rs.app.Engagement.AddReelComment(ctx, it.Reel.ID, text)
	case "?":
		r.line(reelHelp)
	}
	return false
}

// scrollStep is how far J/K move the feed, in item heights
const scrollStep = 0.25

// navigator turns keys into the gestures a touch screen would report. The
// feed is laid out as one column of screen-high items and offset is the
// scroll position in item heights.
type navigator struct {
	swipe  float64
	offset float64
}

// flick is a full-threshold swipe; dir 1 advances
func (n *navigator) flick(ctrl *reels.Controller, dir float64) {
	ctrl.Swipe(-dir * n.swipe)
	n.offset = float64(max(ctrl.View().Active, 0))
}

func (n *navigator) scroll(ctrl *reels.Controller, delta float64) {
	last := float64(max(len(ctrl.View().Items)-1, 0))
	n.offset = min(max(n.offset+delta, 0), last)
	ctrl.ReportScroll(n.offset, 1, 1)
}

func nextFilter(f reels.Filter) reels.Filter {
	for i, known := range reels.Filters {
		if known == f {
			return reels.Filters[(i+1)%len(reels.Filters)]
		}
	}
	return reels.ForYou
}

// reelRenderer prints feed snapshots, skipping repeats. It is called from the
// key loop and from background loads.
type reelRenderer struct {
	app  *App
	out  io.Writer
	crlf bool

	mu      sync.Mutex
	last    string
	notices int
}

func (r *reelRenderer) render(v reels.View) {
	// engagement holds the freshest likes and comments
	if it, ok := v.ActiveItem(); ok {
		if reel, ok := r.app.Engagement.Reel(it.Reel.ID); ok {
			v.Items[v.Active].Reel = reel
		}
	}
	text := formatter.ReelView(v, r.app.me(), r.app.Now())

	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.app.Notices()); n > r.notices {
		if notice, ok := r.app.lastNotice(); ok {
			msg := notice.Message
			if notice.LoginRequired() {
				msg += " (run `reelhouse-cli auth login`)"
			}
			r.write(formatter.Warning.Sprint(msg) + "\n")
		}
		r.notices = n
	}
	if text == r.last {
		return
	}
	r.last = text
	r.write("\n" + text)
}

func (r *reelRenderer) line(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(s + "\n")
}

func (r *reelRenderer) write(s string) {
	if r.crlf {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	fmt.Fprint(r.out, s)
}
