// Package reels drives the reel feed: it pages reels in from a filter's
// source, decides which item is active from what is visible, loads media for
// the active item (and its next neighbour unless data saver is on), and
// starts and stops playback as the active item changes.
package reels

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/logger"
)

// Config holds the feed's tuning knobs
type Config struct {
	PageSize            int
	PrefetchThreshold   int
	RetentionWindow     int
	VisibilityThreshold float64
	SwipeThreshold      float64
}

// DefaultConfig returns the stock settings
func DefaultConfig() Config {
	return Config{
		PageSize:            5,
		PrefetchThreshold:   2,
		RetentionWindow:     2,
		VisibilityThreshold: 0.5,
		SwipeThreshold:      50,
	}
}

// SourceFactory builds the source for a filter
type SourceFactory func(Filter) (Source, error)

type item struct {
	reel         api.Reel
	state        MediaState
	handle       Handle
	err          error
	pausedByUser bool
}

// Controller is safe for concurrent use. Fetches and media loads run on
// their own goroutines; Wait blocks until they finish.
type Controller struct {
	cfg      Config
	sources  SourceFactory
	loader   MediaLoader
	player   Player
	sink     Sink
	recorder Recorder
	prefs    Preferences
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	closed      bool
	filter      Filter
	source      Source
	items       []*item
	page        int
	hasMore     bool
	loading     bool
	generation  uint64
	active      int
	dataSaver   bool
	muted       bool
	audioLocked bool
	lastErr     error
	visibility  map[int]float64
}

// Option configures a Controller
type Option func(*Controller)

func WithSink(s Sink) Option { return func(c *Controller) { c.sink = s } }

func WithRecorder(r Recorder) Option { return func(c *Controller) { c.recorder = r } }

// WithPreferences reads the initial data saver flag from p and persists
// changes to it
func WithPreferences(p Preferences) Option { return func(c *Controller) { c.prefs = p } }

// WithOnChange registers a callback run after background work changes state
func WithOnChange(fn func()) Option { return func(c *Controller) { c.onChange = fn } }

// New returns an idle controller; call SetFilter to start the feed
func New(cfg Config, sources SourceFactory, loader MediaLoader, player Player, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:        cfg,
		sources:    sources,
		loader:     loader,
		player:     player,
		ctx:        ctx,
		cancel:     cancel,
		active:     -1,
		page:       1,
		visibility: map[int]float64{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.prefs != nil {
		c.dataSaver = c.prefs.DataSaver()
	}
	return c
}

// SetFilter clears the feed, resets the cursor to page one and starts
// fetching the new filter. Results of fetches started under the old filter
// are dropped.
func (c *Controller) SetFilter(f Filter) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return context.Canceled
	}

	c.generation++
	c.releaseAll()
	c.filter = f
	c.items = nil
	c.page = 1
	c.hasMore = true
	c.loading = false
	c.active = -1
	c.lastErr = nil
	c.visibility = map[int]float64{}

	src, err := c.sources(f)
	if err != nil {
		c.source = nil
		c.hasMore = false
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	c.source = src
	if c.sink != nil {
		c.sink.ReplaceReels(nil)
	}
	logger.Debug("Reel filter set", "filter", f)
	c.startFetch()
	c.mu.Unlock()
	return nil
}

// LoadMore starts fetching the next page unless one is in flight or the end
// has been reached. It reports whether a fetch started.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startFetch()
}

// Retry clears the last error and fetches again. A failed active item is
// reloaded too.
func (c *Controller) Retry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
	if it := c.activeItem(); it != nil && it.state == Failed {
		it.state = NotLoaded
		it.err = nil
		c.applyMediaPolicy()
	}
	return c.startFetch()
}

// startFetch requires mu held
func (c *Controller) startFetch() bool {
	if c.closed || c.loading || !c.hasMore || c.source == nil {
		return false
	}
	c.loading = true
	gen, page, src, filter := c.generation, c.page, c.source, c.filter

	c.wg.Add(1)
	go c.fetch(gen, page, src, filter)
	return true
}

func (c *Controller) fetch(gen uint64, page int, src Source, filter Filter) {
	defer c.wg.Done()

	start := time.Now()
	result, err := src.Fetch(c.ctx, page, c.cfg.PageSize)
	if c.recorder != nil {
		c.recorder.RecordPage(string(filter), err, time.Since(start))
	}

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		logger.Debug("Dropping stale reel page", "filter", filter, "page", page)
		return
	}
	c.loading = false

	if err != nil {
		// hasMore is left alone so the next approach to the end retries
		c.lastErr = err
		c.mu.Unlock()
		logger.Warn("Reel page fetch failed", "filter", filter, "page", page, "error", err)
		c.changed()
		return
	}

	c.lastErr = nil
	c.page = page + 1
	c.hasMore = result.Raw >= c.cfg.PageSize
	for _, r := range result.Reels {
		c.items = append(c.items, &item{reel: r.Clone()})
	}
	if c.sink != nil && len(result.Reels) > 0 {
		c.sink.AppendReels(result.Reels)
	}
	logger.Debug("Reel page loaded", "filter", filter, "page", page,
		"count", len(result.Reels), "raw", result.Raw, "has_more", c.hasMore)

	if c.active < 0 && len(c.items) > 0 {
		c.activate(0)
	} else if c.active >= 0 {
		c.applyMediaPolicy()
		c.maybePrefetch()
	}
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

// ReportScroll derives visibility for every item from a scroll position in a
// single column of fixed-height items. The most visible item becomes active
// once it crosses the threshold.
func (c *Controller) ReportScroll(offset, viewport, itemHeight float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if itemHeight <= 0 {
		return
	}

	c.visibility = map[int]float64{}
	bottom := offset + viewport
	for i := range c.items {
		top := float64(i) * itemHeight
		visible := min(bottom, top+itemHeight) - max(offset, top)
		if visible > 0 {
			c.visibility[i] = visible / itemHeight
		}
	}
	c.activateMostVisible()
}

// activateMostVisible requires mu held
func (c *Controller) activateMostVisible() {
	best, bestRatio := -1, 0.0
	for i, ratio := range c.visibility {
		if ratio < c.cfg.VisibilityThreshold {
			continue
		}
		if ratio > bestRatio || (ratio == bestRatio && i < best) {
			best, bestRatio = i, ratio
		}
	}
	if best >= 0 && best != c.active {
		c.activate(best)
	}
}

// Activate makes item i active
func (c *Controller) Activate(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.items) {
		return false
	}
	if i == c.active {
		return false
	}
	c.activate(i)
	return true
}

// Next moves to the following item, stopping at the last one
func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step(1)
}

// Prev moves to the preceding item, stopping at the first one
func (c *Controller) Prev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step(-1)
}

// Swipe navigates by one item when a vertical drag of dy exceeds the
// threshold: dragging up (negative) advances.
func (c *Controller) Swipe(dy float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case dy <= -c.cfg.SwipeThreshold:
		return c.step(1)
	case dy >= c.cfg.SwipeThreshold:
		return c.step(-1)
	}
	return false
}

func (c *Controller) step(delta int) bool {
	if len(c.items) == 0 {
		return false
	}
	next := min(max(c.active+delta, 0), len(c.items)-1)
	if next == c.active {
		// at the end: still give the prefetch a chance
		c.maybePrefetch()
		return false
	}
	c.activate(next)
	return true
}

// activate requires mu held and i in range
func (c *Controller) activate(i int) {
	for j, it := range c.items {
		if j != i && it.state == Playing {
			c.player.Pause(it.reel.ID)
			it.state = Paused
		}
	}
	c.active = i
	logger.Debug("Reel active", "index", i, "reel_id", c.items[i].reel.ID)

	c.applyMediaPolicy()
	c.evict()

	it := c.items[i]
	if !it.pausedByUser && (it.state == Ready || it.state == Paused) {
		c.play(it)
	}
	c.maybePrefetch()
}

// applyMediaPolicy starts loads for the items the policy wants and that were
// never loaded. Items loaded under a previous policy are left alone.
func (c *Controller) applyMediaPolicy() {
	if c.active < 0 {
		return
	}
	want := []int{c.active}
	if !c.dataSaver && c.active+1 < len(c.items) {
		want = append(want, c.active+1)
	}
	for _, i := range want {
		if it := c.items[i]; it.state == NotLoaded {
			c.load(i, it)
		}
	}
}

// evict drops media held outside the retention window
func (c *Controller) evict() {
	for j, it := range c.items {
		if j == c.active {
			continue
		}
		dist := j - c.active
		if dist < 0 {
			dist = -dist
		}
		if dist > c.cfg.RetentionWindow && (it.state == Ready || it.state == Paused) {
			c.release(it)
			it.state = NotLoaded
			logger.Debug("Evicted reel media", "index", j, "reel_id", it.reel.ID)
		}
	}
}

func (c *Controller) maybePrefetch() {
	if c.active < 0 {
		return
	}
	if len(c.items)-1-c.active <= c.cfg.PrefetchThreshold {
		c.startFetch()
	}
}

func (c *Controller) load(i int, it *item) {
	it.state = Loading
	it.err = nil
	gen, url, id := c.generation, it.reel.VideoURL, it.reel.ID

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		h, err := c.loader.Load(c.ctx, url)
		if c.recorder != nil {
			c.recorder.RecordMediaLoad(err)
		}

		c.mu.Lock()
		if c.closed || gen != c.generation || i >= len(c.items) || c.items[i].reel.ID != id {
			c.mu.Unlock()
			if h != nil {
				_ = h.Release()
			}
			return
		}

		it := c.items[i]
		if err != nil {
			it.state = Failed
			it.err = err
			logger.Warn("Reel media failed", "reel_id", id, "error", err)
		} else {
			it.handle = h
			it.state = Ready
			if i == c.active && !it.pausedByUser {
				c.play(it)
			}
		}
		c.mu.Unlock()
		c.changed()
	}()
}

// play starts it, falling back to muted playback when the host refuses sound
func (c *Controller) play(it *item) {
	err := c.player.Play(it.reel.ID, c.muted)
	if errors.Is(err, ErrAutoplayBlocked) && !c.muted {
		logger.Debug("Autoplay with sound blocked, playing muted", "reel_id", it.reel.ID)
		c.muted = true
		c.audioLocked = true
		err = c.player.Play(it.reel.ID, true)
	}
	if err != nil {
		it.state = Failed
		it.err = err
		return
	}
	it.state = Playing
}

func (c *Controller) activeItem() *item {
	if c.active < 0 || c.active >= len(c.items) {
		return nil
	}
	return c.items[c.active]
}

// TogglePause pauses or resumes the active item. A pause made here is
// remembered for that item until it is resumed.
func (c *Controller) TogglePause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := c.activeItem()
	if it == nil {
		return
	}
	switch it.state {
	case Playing:
		c.player.Pause(it.reel.ID)
		it.state = Paused
		it.pausedByUser = true
	case Paused, Ready:
		it.pausedByUser = false
		c.play(it)
	case Loading, NotLoaded:
		it.pausedByUser = !it.pausedByUser
	}
}

// ToggleMute flips the mute flag and applies it to the active item
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.muted && c.audioLocked {
		c.unlockAudio()
		return
	}
	c.muted = !c.muted
	if it := c.activeItem(); it != nil && it.state == Playing {
		c.play(it)
	}
}

// UnlockAudio is the user's explicit permission for sound after autoplay
// fell back to muted
func (c *Controller) UnlockAudio() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unlockAudio()
}

func (c *Controller) unlockAudio() {
	if u, ok := c.player.(AudioUnlocker); ok {
		u.UnlockAudio()
	}
	c.audioLocked = false
	c.muted = false
	if it := c.activeItem(); it != nil && it.state == Playing {
		c.play(it)
	}
}

// SetDataSaver changes the media policy for items encountered from now on
func (c *Controller) SetDataSaver(on bool) error {
	c.mu.Lock()
	c.dataSaver = on
	c.mu.Unlock()

	if c.prefs != nil {
		return c.prefs.SetDataSaver(on)
	}
	return nil
}

// Wait blocks until background fetches and loads have finished
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close stops playback, cancels background work and releases media
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	c.releaseAll()
	c.mu.Unlock()

	c.wg.Wait()
}

// releaseAll requires mu held
func (c *Controller) releaseAll() {
	for _, it := range c.items {
		if it.state == Playing {
			c.player.Pause(it.reel.ID)
		}
		c.release(it)
	}
}

func (c *Controller) release(it *item) {
	if it.handle == nil {
		return
	}
	if err := it.handle.Release(); err != nil {
		logger.Debug("Release media failed", "reel_id", it.reel.ID, "error", err)
	}
	it.handle = nil
}
