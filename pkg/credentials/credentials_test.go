package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCredentialsIsExpired validates token expiration check
func TestCredentialsIsExpired(t *testing.T) {
	testCases := []struct {
		expiresAt time.Time
		expect    bool
		name      string
	}{
		{time.Now().Add(-1 * time.Hour), true, "past expiration"},
		{time.Now().Add(1 * time.Hour), false, "future expiration"},
		{time.Now().Add(-1 * time.Minute), true, "recently expired"},
		{time.Now().Add(1 * time.Minute), false, "expiring soon"},
		{time.Time{}, false, "no expiry recorded"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds := &Credentials{Token: "test_token", ExpiresAt: tc.expiresAt}
			assert.Equal(t, tc.expect, creds.IsExpired())
		})
	}
}

// TestCredentialsIsValid validates credential validity check
func TestCredentialsIsValid(t *testing.T) {
	testCases := []struct {
		token     string
		expiresAt time.Time
		expect    bool
		name      string
	}{
		{"valid_token", time.Now().Add(1 * time.Hour), true, "valid credentials"},
		{"", time.Now().Add(1 * time.Hour), false, "empty token"},
		{"valid_token", time.Now().Add(-1 * time.Hour), false, "expired token"},
		{"", time.Now().Add(-1 * time.Hour), false, "empty and expired"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds := &Credentials{Token: tc.token, ExpiresAt: tc.expiresAt}
			assert.Equal(t, tc.expect, creds.IsValid())
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	exp := time.Now().Add(time.Hour).Truncate(time.Second).UTC()

	require.NoError(t, SaveTo(path, &Credentials{Token: "jwt", UserID: "u1", Username: "ann", ExpiresAt: exp}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	creds, err := LoadFrom(path)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "jwt", creds.Token)
	assert.Equal(t, "u1", creds.UserID)
	assert.True(t, exp.Equal(creds.ExpiresAt))
}

func TestLoadMissingFile(t *testing.T) {
	creds, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	assert.NoError(t, err)
	assert.Nil(t, creds)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "credentials.json")}

	token, err := src.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, SaveTo(src.Path, &Credentials{Token: "jwt"}))
	token, err = src.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)

	require.NoError(t, src.Clear())
	require.NoError(t, src.Clear(), "clearing twice is fine")

	token, err = src.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}
