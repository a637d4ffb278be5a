package reels

import (
	"errors"
	"testing"

	"github.com/reelhouse/cli/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortPageEndsPagination(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 3, "u2")

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	v := f.ctrl.View()
	assert.Len(t, v.Items, 3)
	assert.False(t, v.HasMore)
	assert.Equal(t, EmptyNone, v.Empty)

	// scrolling to the end does not fetch again
	f.ctrl.Next()
	f.ctrl.Next()
	f.ctrl.Next()
	assert.False(t, f.ctrl.LoadMore())
	f.ctrl.Wait()
	assert.Equal(t, []int{1}, f.sources[ForYou].Calls())
	assert.Equal(t, 2, f.ctrl.View().Active)
}

func TestFullPageKeepsPaginatingOnApproach(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("a", 5, "u2")
	f.sources[ForYou].pages[2] = makeReels("b", 5, "u2")

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()
	v := f.ctrl.View()
	assert.True(t, v.HasMore)
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, []int{1}, f.sources[ForYou].Calls(), "active 0 is not near the end")

	f.ctrl.Next()
	f.ctrl.Wait()
	assert.Equal(t, []int{1}, f.sources[ForYou].Calls())

	f.ctrl.Next() // index 2 is within two of the last item
	f.ctrl.Wait()
	assert.Equal(t, []int{1, 2}, f.sources[ForYou].Calls())
	assert.Len(t, f.ctrl.View().Items, 10)
}

func TestNoDuplicateInFlightFetch(t *testing.T) {
	f := newFeed(t)
	src := f.sources[ForYou]
	src.pages[1] = makeReels("r", 5, "u2")
	src.gate = make(chan struct{})

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	assert.True(t, f.ctrl.View().Loading)
	assert.False(t, f.ctrl.LoadMore())
	assert.False(t, f.ctrl.LoadMore())

	close(src.gate)
	f.ctrl.Wait()
	assert.Equal(t, []int{1}, src.Calls())
}

func TestSwitchingFilterResets(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("f", 5, "u2")
	mine := f.sources[MyReels]
	mine.pages[1] = makeReels("m", 2, "u1")
	mine.gate = make(chan struct{})

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()
	require.Len(t, f.ctrl.View().Items, 5)
	firstHandle := f.loader.Handle("https://cdn.test/f0.mp4")
	require.NotNil(t, firstHandle)

	require.NoError(t, f.ctrl.SetFilter(MyReels))
	v := f.ctrl.View()
	assert.Empty(t, v.Items, "cleared before the new filter's first item")
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, -1, v.Active)
	assert.True(t, firstHandle.Released())

	close(mine.gate)
	f.ctrl.Wait()
	v = f.ctrl.View()
	assert.Equal(t, []int{1}, mine.Calls())
	require.Len(t, v.Items, 2)
	assert.Equal(t, "m0", v.Items[0].Reel.ID)
	assert.Equal(t, MyReels, v.Filter)
}

func TestStaleFetchIsDropped(t *testing.T) {
	f := newFeed(t)
	old := f.sources[ForYou]
	old.pages[1] = makeReels("old", 5, "u2")
	old.gate = make(chan struct{})
	f.sources[Following].pages[1] = makeReels("new", 1, "u3")

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	require.NoError(t, f.ctrl.SetFilter(Following))
	close(old.gate)
	f.ctrl.Wait()

	v := f.ctrl.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, "new0", v.Items[0].Reel.ID)
}

func TestEmptyFollowingFeed(t *testing.T) {
	f := newFeed(t)
	f.sources[Following].pages[1] = []api.Reel{}

	require.NoError(t, f.ctrl.SetFilter(Following))
	f.ctrl.Wait()

	v := f.ctrl.View()
	assert.Equal(t, EmptyFollowing, v.Empty)
	assert.False(t, v.HasMore)

	f.ctrl.ReportScroll(500, 800, 400)
	f.ctrl.Next()
	assert.False(t, f.ctrl.LoadMore())
	f.ctrl.Wait()
	assert.Equal(t, []int{1}, f.sources[Following].Calls())
}

func TestEmptyStatesPerFilter(t *testing.T) {
	for filter, want := range map[Filter]EmptyState{ForYou: EmptyFeed, MyReels: EmptyMine} {
		f := newFeed(t)
		require.NoError(t, f.ctrl.SetFilter(filter))
		f.ctrl.Wait()
		assert.Equal(t, want, f.ctrl.View().Empty)
	}
}

func TestFetchFailureKeepsHasMore(t *testing.T) {
	f := newFeed(t)
	src := f.sources[ForYou]
	src.pages[1] = makeReels("r", 5, "u2")
	src.setErr(errors.New("offline"))

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	v := f.ctrl.View()
	assert.Error(t, v.Err)
	assert.True(t, v.HasMore)
	assert.Equal(t, EmptyNone, v.Empty, "an error is not an empty feed")
	assert.Equal(t, 1, v.Page)

	src.setErr(nil)
	assert.True(t, f.ctrl.Retry())
	f.ctrl.Wait()
	v = f.ctrl.View()
	assert.NoError(t, v.Err)
	assert.Len(t, v.Items, 5)
	assert.Equal(t, []int{1, 1}, src.Calls())
}

func TestMediaPolicy(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 5, "u2")

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()
	assert.Equal(t, []MediaState{Playing, Ready, NotLoaded, NotLoaded, NotLoaded}, f.states())

	require.NoError(t, f.ctrl.SetDataSaver(true))
	f.ctrl.Next()
	f.ctrl.Wait()
	assert.Equal(t, []MediaState{Paused, Playing, NotLoaded, NotLoaded, NotLoaded}, f.states(),
		"no neighbour load with data saver on")

	require.NoError(t, f.ctrl.SetDataSaver(false))
	assert.Equal(t, []MediaState{Paused, Playing, NotLoaded, NotLoaded, NotLoaded}, f.states(),
		"policy changes only affect items encountered later")

	f.ctrl.Next()
	f.ctrl.Wait()
	assert.Equal(t, []MediaState{Paused, Paused, Playing, Ready, NotLoaded}, f.states())
}

func TestDataSaverFromPreferences(t *testing.T) {
	prefs := &fakePrefs{on: true}
	f := newFeed(t, WithPreferences(prefs))
	f.sources[ForYou].pages[1] = makeReels("r", 3, "u2")

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()
	assert.True(t, f.ctrl.View().DataSaver)
	assert.Equal(t, []MediaState{Playing, NotLoaded, NotLoaded}, f.states())

	require.NoError(t, f.ctrl.SetDataSaver(false))
	assert.False(t, prefs.on)
}

func TestActivationPausesOthers(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 3, "u2")
	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	assert.True(t, f.ctrl.Activate(1))
	f.ctrl.Wait()
	assert.Equal(t, []MediaState{Paused, Playing, Ready}, f.states())
	assert.Contains(t, f.player.pauses, "r0")
	assert.Equal(t, "r1", f.player.LastPlay().ID)

	assert.False(t, f.ctrl.Activate(1), "already active")
	assert.False(t, f.ctrl.Activate(7), "out of range")
}

func TestExplicitPauseIsSticky(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 3, "u2")
	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	f.ctrl.TogglePause()
	v := f.ctrl.View()
	assert.Equal(t, Paused, v.Items[0].State)
	assert.True(t, v.Items[0].PausedByUser)

	f.ctrl.Next()
	f.ctrl.Wait()
	f.ctrl.Prev()
	f.ctrl.Wait()
	assert.Equal(t, Paused, f.ctrl.View().Items[0].State, "not restarted on return")

	f.ctrl.TogglePause()
	v = f.ctrl.View()
	assert.Equal(t, Playing, v.Items[0].State)
	assert.False(t, v.Items[0].PausedByUser)
}

func TestAutoplayBlockedFallsBackToMuted(t *testing.T) {
	f := newFeed(t)
	f.player.blockSound = true
	f.sources[ForYou].pages[1] = makeReels("r", 2, "u2")

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	v := f.ctrl.View()
	assert.Equal(t, Playing, v.Items[0].State, "degraded, not failed")
	assert.True(t, v.Muted)
	assert.True(t, v.AudioLocked)
	assert.Equal(t, playCall{ID: "r0", Muted: true}, f.player.LastPlay())

	f.ctrl.UnlockAudio()
	v = f.ctrl.View()
	assert.False(t, v.Muted)
	assert.False(t, v.AudioLocked)
	assert.Equal(t, playCall{ID: "r0", Muted: false}, f.player.LastPlay())
}

func TestToggleMute(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 1, "u2")
	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	f.ctrl.ToggleMute()
	assert.True(t, f.ctrl.View().Muted)
	assert.Equal(t, playCall{ID: "r0", Muted: true}, f.player.LastPlay())

	f.ctrl.ToggleMute()
	assert.False(t, f.ctrl.View().Muted)
	assert.Equal(t, playCall{ID: "r0", Muted: false}, f.player.LastPlay())
}

func TestMediaFailureIsPerItem(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 3, "u2")
	f.loader.fail["https://cdn.test/r0.mp4"] = true

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	v := f.ctrl.View()
	assert.Equal(t, Failed, v.Items[0].State)
	assert.Error(t, v.Items[0].Err)
	assert.Equal(t, Ready, v.Items[1].State)

	f.ctrl.Next()
	f.ctrl.Wait()
	assert.Equal(t, Playing, f.ctrl.View().Items[1].State)
}

func TestRetentionWindowEvicts(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 5, "u2")
	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	for i := 0; i < 4; i++ {
		f.ctrl.Next()
		f.ctrl.Wait()
	}

	assert.Equal(t, []MediaState{NotLoaded, NotLoaded, Paused, Paused, Playing}, f.states())
	assert.True(t, f.loader.Handle("https://cdn.test/r0.mp4").Released())
	assert.True(t, f.loader.Handle("https://cdn.test/r1.mp4").Released())
	assert.False(t, f.loader.Handle("https://cdn.test/r2.mp4").Released())

	// going back reloads evicted media
	f.ctrl.Activate(0)
	f.ctrl.Wait()
	assert.Equal(t, Playing, f.ctrl.View().Items[0].State)
}

func TestVisibilityDrivesActiveItem(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 3, "u2")
	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	f.ctrl.ReportScroll(40, 100, 100)
	assert.Equal(t, 0, f.ctrl.View().Active, "second item below the majority threshold")

	f.ctrl.ReportScroll(70, 100, 100)
	assert.Equal(t, 1, f.ctrl.View().Active)

	// a tall viewport with no item past the threshold keeps the active one
	f.ctrl.ReportScroll(60, 100, 250)
	assert.Equal(t, 1, f.ctrl.View().Active)

	// viewport of one item height scrolled 80% into the third item
	f.ctrl.ReportScroll(180, 100, 100)
	f.ctrl.Wait()
	assert.Equal(t, 2, f.ctrl.View().Active)
}

func TestSwipe(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 3, "u2")
	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	assert.False(t, f.ctrl.Swipe(-49))
	assert.True(t, f.ctrl.Swipe(-50))
	assert.Equal(t, 1, f.ctrl.View().Active)
	assert.True(t, f.ctrl.Swipe(80))
	assert.Equal(t, 0, f.ctrl.View().Active)
	assert.False(t, f.ctrl.Swipe(80), "clamped at the first item")
	assert.False(t, f.ctrl.Prev())
}

type recordingSink struct {
	replaced int
	appended []string
}

func (s *recordingSink) ReplaceReels(reels []api.Reel) {
	s.replaced++
	s.appended = nil
}

func (s *recordingSink) AppendReels(reels []api.Reel) {
	for _, r := range reels {
		s.appended = append(s.appended, r.ID)
	}
}

func TestSinkReceivesReels(t *testing.T) {
	sink := &recordingSink{}
	f := newFeed(t, WithSink(sink))
	f.sources[ForYou].pages[1] = makeReels("r", 2, "u2")

	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()
	assert.Equal(t, 1, sink.replaced)
	assert.Equal(t, []string{"r0", "r1"}, sink.appended)
}

func TestCloseReleasesMedia(t *testing.T) {
	f := newFeed(t)
	f.sources[ForYou].pages[1] = makeReels("r", 2, "u2")
	require.NoError(t, f.ctrl.SetFilter(ForYou))
	f.ctrl.Wait()

	f.ctrl.Close()
	assert.True(t, f.loader.Handle("https://cdn.test/r0.mp4").Released())
	assert.True(t, f.loader.Handle("https://cdn.test/r1.mp4").Released())
	assert.Error(t, f.ctrl.SetFilter(ForYou))
}
