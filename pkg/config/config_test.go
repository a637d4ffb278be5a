package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Init(filepath.Join(dir, "config.toml")))
	return dir
}

func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	require.NoError(t, Init(customConfigPath))

	assert.Equal(t, filepath.Join(tempDir, "custom", "path"), GetConfigDir())

	info, err := os.Stat(GetConfigDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCredentialsAndSettingsPathsLiveInConfigDir(t *testing.T) {
	dir := initTemp(t)

	assert.Equal(t, filepath.Join(dir, "credentials"), GetCredentialsPath())
	assert.Equal(t, filepath.Join(dir, "settings.toml"), GetSettingsPath())
}

func TestDefaults(t *testing.T) {
	dir := initTemp(t)

	testCases := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"api base url", GetString("api.base_url"), "http://localhost:5000/api"},
		{"api timeout", GetInt("api.timeout"), 30},
		{"output format", GetString("output.format"), "text"},
		{"log level", GetString("log.level"), "info"},
		{"page size", GetInt("reels.page_size"), 5},
		{"prefetch threshold", GetInt("reels.prefetch_threshold"), 2},
		{"retention window", GetInt("reels.retention_window"), 2},
		{"visibility threshold", GetFloat("reels.visibility_threshold"), 0.5},
		{"swipe threshold", GetInt("reels.swipe_threshold"), 50},
		{"my reels fetch limit", GetInt("reels.my_reels_fetch_limit"), 100},
		{"cache dir", GetString("reels.cache_dir"), filepath.Join(dir, "media")},
		{"analytics", GetBool("analytics.enabled"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[api]\nbase_url = \"https://api.example.com\"\n\n[reels]\npage_size = 8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	require.NoError(t, Init(path))

	assert.Equal(t, "https://api.example.com", GetString("api.base_url"))
	assert.Equal(t, 8, GetInt("reels.page_size"))
	assert.Equal(t, 30, GetInt("api.timeout"))
}

func TestEnvironmentVariableOverride(t *testing.T) {
	t.Setenv("REELHOUSE_API_BASE_URL", "https://env.example.com")
	initTemp(t)

	assert.Equal(t, "https://env.example.com", GetString("api.base_url"))
}

func TestUseEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[env.production]\napi_base_url = \"https://prod.example.com/api\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	require.NoError(t, Init(path))

	assert.False(t, UseEnvironment(""))
	assert.False(t, UseEnvironment("staging"))
	assert.Equal(t, "http://localhost:5000/api", GetString("api.base_url"))

	assert.True(t, UseEnvironment("production"))
	assert.Equal(t, "https://prod.example.com/api", GetString("api.base_url"))
}

func TestSetStringPersists(t *testing.T) {
	dir := initTemp(t)

	require.NoError(t, SetString("output.format", "json"))
	require.NoError(t, Init(filepath.Join(dir, "config.toml")))

	assert.Equal(t, "json", GetString("output.format"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "media"), expandPath("~/media"))
	assert.Equal(t, "/tmp/media", expandPath("/tmp/media"))
	assert.Equal(t, "", expandPath(""))
}
