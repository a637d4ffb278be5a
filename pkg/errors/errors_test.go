package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cause := errors.New("underlying error")
	err := New(KindValidationFailure, "Test error", cause)

	require.NotNil(t, err)
	assert.Equal(t, KindValidationFailure, err.Kind)
	assert.Equal(t, "Test error", err.Message)
	assert.Same(t, cause, err.Cause)
	assert.ErrorIs(t, err, cause)
}

func TestWithSuggestion(t *testing.T) {
	err := New(KindValidationFailure, "Test", nil)
	assert.False(t, err.HasSuggestion())

	result := err.WithSuggestion("Try something else")
	assert.True(t, result.HasSuggestion())
	assert.Equal(t, "Try something else", result.Suggestion)
}

func TestConstructors(t *testing.T) {
	testCases := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"unauthenticated", Unauthenticated(""), KindUnauthenticated},
		{"network", NetworkFailure(errors.New("dial tcp: connection refused")), KindNetworkFailure},
		{"server", ServerRejected(500, "boom"), KindServerRejected},
		{"validation", Validation("comment text", "cannot be empty"), KindValidationFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Equal(t, tc.kind, KindOf(tc.err))
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func TestUnauthenticatedDefaultsMessage(t *testing.T) {
	err := Unauthenticated("")
	assert.Equal(t, "You need to log in to do that", err.Message)
	assert.Contains(t, err.Suggestion, "auth login")
}

func TestNetworkFailureDetectsTimeout(t *testing.T) {
	err := NetworkFailure(context.DeadlineExceeded)
	assert.Equal(t, "Request timed out", err.Message)

	err = NetworkFailure(errors.New("connection reset"))
	assert.Equal(t, "Could not reach the server", err.Message)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestServerRejected(t *testing.T) {
	err := ServerRejected(403, "")
	assert.Equal(t, 403, err.StatusCode)
	assert.Contains(t, err.Message, "403")

	err = ServerRejected(401, "jwt expired")
	assert.Equal(t, "jwt expired", err.Error())
	assert.Contains(t, err.Suggestion, "auth login")

	assert.Equal(t, 503, StatusCode(fmt.Errorf("wrapped: %w", ServerRejected(503, "down"))))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("like post: %w", Unauthenticated(""))

	assert.True(t, IsUnauthenticated(wrapped))
	assert.False(t, IsNetworkFailure(wrapped))
	assert.False(t, IsServerRejected(wrapped))
	assert.False(t, IsValidation(wrapped))

	assert.True(t, IsValidation(Validation("text", "is empty")))
	assert.True(t, IsServerRejected(ServerRejected(400, "bad")))
	assert.True(t, IsNetworkFailure(NetworkFailure(errors.New("eof"))))
}

func TestCategorize(t *testing.T) {
	assert.Nil(t, Categorize(nil))

	original := ServerRejected(404, "not found")
	assert.Same(t, original, Categorize(fmt.Errorf("ctx: %w", original)))

	assert.Equal(t, KindNetworkFailure, Categorize(errors.New("dial tcp: connection refused")).Kind)
	assert.Equal(t, KindNetworkFailure, Categorize(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindUnknown, Categorize(errors.New("something odd")).Kind)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))

	out := Format(Unauthenticated(""))
	assert.True(t, strings.HasPrefix(out, "Error (unauthenticated): "))
	assert.Contains(t, out, "Suggestion: ")

	out = Format(errors.New("odd"))
	assert.Equal(t, "Error: odd\n", out)
}
