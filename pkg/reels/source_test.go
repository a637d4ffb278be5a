package reels

import (
	"context"
	"sync"
	"testing"

	"github.com/reelhouse/cli/pkg/api"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listCall struct {
	Page, Limit int
	Feed        string
}

type fakeLister struct {
	mu    sync.Mutex
	reels []api.Reel
	calls []listCall
}

func (l *fakeLister) ListReels(_ context.Context, page, limit int, feed string) ([]api.Reel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, listCall{page, limit, feed})

	start := (page - 1) * limit
	if start >= len(l.reels) {
		return []api.Reel{}, nil
	}
	return l.reels[start:min(start+limit, len(l.reels))], nil
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want Filter
	}{
		{"", ForYou},
		{"for-you", ForYou},
		{"Following", Following},
		{"mine", MyReels},
		{"my-reels", MyReels},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFilter("trending")
	assert.True(t, apperrors.IsValidation(err))
}

func TestForYouSourcePassesPaging(t *testing.T) {
	lister := &fakeLister{reels: makeReels("r", 7, "u2")}
	src, err := NewSource(ForYou, lister, session.NewStatic(nil), 100)
	require.NoError(t, err)

	page, err := src.Fetch(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Len(t, page.Reels, 2)
	assert.Equal(t, 2, page.Raw)
	assert.Equal(t, []listCall{{2, 5, ""}}, lister.calls)
}

func TestFollowingSourceDropsOwnReels(t *testing.T) {
	reels := append(makeReels("a", 3, "u2"), makeReels("b", 2, "u1")...)
	lister := &fakeLister{reels: reels}
	src, err := NewSource(Following, lister, session.NewStatic(&api.User{ID: "u1"}), 100)
	require.NoError(t, err)

	page, err := src.Fetch(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Len(t, page.Reels, 3)
	assert.Equal(t, 5, page.Raw, "end of data is judged before filtering")
	for _, r := range page.Reels {
		assert.NotEqual(t, "u1", r.Author.ID)
	}
	assert.Equal(t, "following", lister.calls[0].Feed)
}

func TestMyReelsSourceFetchesOnce(t *testing.T) {
	var reels []api.Reel
	for i := range 4 {
		reels = append(reels, makeReels("o"+string(rune('a'+i)), 2, "u2")...)
		reels = append(reels, makeReels("m"+string(rune('a'+i)), 2, "u1")...)
	}
	lister := &fakeLister{reels: reels}
	src, err := NewSource(MyReels, lister, session.NewStatic(&api.User{ID: "u1"}), 100)
	require.NoError(t, err)

	p1, err := src.Fetch(context.Background(), 1, 5)
	require.NoError(t, err)
	p2, err := src.Fetch(context.Background(), 2, 5)
	require.NoError(t, err)
	p3, err := src.Fetch(context.Background(), 3, 5)
	require.NoError(t, err)

	assert.Len(t, p1.Reels, 5)
	assert.Len(t, p2.Reels, 3)
	assert.Equal(t, 3, p2.Raw)
	assert.Empty(t, p3.Reels)
	for _, r := range append(p1.Reels, p2.Reels...) {
		assert.Equal(t, "u1", r.Author.ID)
	}
	assert.Equal(t, []listCall{{1, 100, ""}}, lister.calls)
}

func TestMyReelsRequiresLogin(t *testing.T) {
	lister := &fakeLister{}
	src, err := NewSource(MyReels, lister, session.NewStatic(nil), 100)
	require.NoError(t, err)

	_, err = src.Fetch(context.Background(), 1, 5)
	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.Empty(t, lister.calls)
}

func TestMyReelsPaginateInController(t *testing.T) {
	lister := &fakeLister{reels: append(makeReels("x", 3, "u2"), makeReels("m", 7, "u1")...)}
	sess := session.NewStatic(&api.User{ID: "u1"})
	factory := func(f Filter) (Source, error) { return NewSource(f, lister, sess, 100) }

	ctrl := New(DefaultConfig(), factory, newFakeLoader(), &fakePlayer{})
	t.Cleanup(ctrl.Close)

	require.NoError(t, ctrl.SetFilter(MyReels))
	ctrl.Wait()
	v := ctrl.View()
	assert.Len(t, v.Items, 5)
	assert.True(t, v.HasMore)

	ctrl.Activate(3)
	ctrl.Wait()
	v = ctrl.View()
	assert.Len(t, v.Items, 7)
	assert.False(t, v.HasMore)
	assert.Len(t, lister.calls, 1)
}

func TestUnknownFilter(t *testing.T) {
	_, err := NewSource(Filter("trending"), &fakeLister{}, session.NewStatic(nil), 100)
	assert.Error(t, err)
}
