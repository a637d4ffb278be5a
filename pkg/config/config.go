package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "REELHOUSE"

var configDir string
var configFilePath string
var credentialsPath string
var settingsPath string

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\reelhouse\cli
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "reelhouse", "cli"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/reelhouse/cli
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reelhouse", "cli"), nil
}

// getSystemConfigPaths returns platform-specific system config paths
func getSystemConfigPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(os.Getenv("ProgramFiles"), "Reelhouse", "cli", "config.toml")}
	}

	return []string{
		"/etc/reelhouse/cli/config.toml",
		"/usr/local/etc/reelhouse/cli/config.toml",
	}
}

// Init initializes the configuration. An empty configPath selects the
// platform config directory.
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	credentialsPath = filepath.Join(configDir, "credentials")
	settingsPath = filepath.Join(configDir, "settings.toml")

	viper.Reset()
	viper.SetConfigType("toml")
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// System config is the foundation, the user config overrides it.
	for _, sysConfigPath := range getSystemConfigPaths() {
		if _, err := os.Stat(sysConfigPath); err == nil {
			viper.SetConfigFile(sysConfigPath)
			_ = viper.ReadInConfig()
			break
		}
	}

	viper.SetConfigFile(configFilePath)
	_ = viper.MergeInConfig()

	return nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:5000/api")
	viper.SetDefault("api.timeout", 30)
	viper.SetDefault("output.format", "text")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "reelhouse-cli.log"))

	viper.SetDefault("reels.page_size", 5)
	viper.SetDefault("reels.prefetch_threshold", 2)
	viper.SetDefault("reels.retention_window", 2)
	viper.SetDefault("reels.visibility_threshold", 0.5)
	viper.SetDefault("reels.swipe_threshold", 50)
	viper.SetDefault("reels.my_reels_fetch_limit", 100)
	viper.SetDefault("reels.cache_dir", filepath.Join(configDir, "media"))

	viper.SetDefault("analytics.enabled", true)
}

// UseEnvironment points api.base_url at the named profile
// (env.<name>.api_base_url) when one is configured.
func UseEnvironment(name string) bool {
	if name == "" {
		return false
	}
	key := "env." + name + ".api_base_url"
	if !viper.IsSet(key) {
		return false
	}
	viper.Set("api.base_url", viper.GetString(key))
	return true
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	if key == "reels.cache_dir" || key == "log.file" {
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat returns a float configuration value
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set overrides a value for the lifetime of the process without writing it.
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// SetString sets a string configuration value and writes the config file
func SetString(key string, value string) error {
	viper.Set(key, value)
	return viper.WriteConfigAs(configFilePath)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetCredentialsPath returns the path to the credentials file
func GetCredentialsPath() string {
	return credentialsPath
}

// GetSettingsPath returns the path to the persisted client settings file
func GetSettingsPath() string {
	return settingsPath
}
