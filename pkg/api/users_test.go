package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUserAcceptsBothShapes(t *testing.T) {
	for _, response := range []string{
		`{"user":{"_id":"u1","username":"ann","followers":[],"following":["u2"]}}`,
		`{"_id":"u1","username":"ann","following":[{"_id":"u2"}]}`,
	} {
		c, seen := newTestClient(t, http.StatusOK, response)

		user, err := c.CurrentUser(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "ann", user.Username)
		assert.Equal(t, IDSet{"u2"}, user.Following)
		assert.NotNil(t, user.Followers)
		assert.Equal(t, "/api/auth/me", (*seen)[0].Path)
	}
}

func TestFollowAndUnfollow(t *testing.T) {
	c, seen := newTestClient(t, http.StatusOK, ``)

	require.NoError(t, c.Follow(context.Background(), "u2"))
	require.NoError(t, c.Unfollow(context.Background(), "u2"))

	assert.Equal(t, "/api/users/u2/follow", (*seen)[0].Path)
	assert.Equal(t, "/api/users/u2/unfollow", (*seen)[1].Path)
	assert.Equal(t, http.MethodPost, (*seen)[0].Method)
	assert.Equal(t, http.MethodPost, (*seen)[1].Method)
}

func TestGetUser(t *testing.T) {
	c, seen := newTestClient(t, http.StatusOK, `{"_id":"u2","username":"bo"}`)

	user, err := c.GetUser(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "bo", user.Username)
	assert.Equal(t, "/api/users/u2", (*seen)[0].Path)
}

func TestRecordVisit(t *testing.T) {
	c, seen := newTestClient(t, http.StatusAccepted, ``)

	err := c.RecordVisit(context.Background(), VisitRequest{UserID: "u1", Page: "reel watch", Duration: 1200})
	require.NoError(t, err)
	assert.Equal(t, "/api/analytics/visit", (*seen)[0].Path)
	assert.JSONEq(t, `{"userId":"u1","page":"reel watch","duration":1200}`, (*seen)[0].Body)
}

func TestSetTokenControlsBearerHeader(t *testing.T) {
	c, seen := newTestClient(t, http.StatusOK, `{"_id":"u1"}`)

	c.SetToken("fresh")
	_, err := c.CurrentUser(context.Background())
	require.NoError(t, err)

	c.SetToken("")
	_, err = c.CurrentUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer fresh", (*seen)[0].Auth)
	assert.Empty(t, (*seen)[1].Auth)
}
