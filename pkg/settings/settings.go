package settings

import (
	"strconv"
	"strings"
	"sync"

	"github.com/reelhouse/cli/pkg/config"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/logger"
)

// Persisted keys
const (
	KeyToken          = "token"
	KeyUserID         = "userId"
	KeyDataSaver      = "dataSaver"
	KeyReelsDataSaver = "reelsDataSaver"
	KeyVideoQuality   = "reelsVideoQuality"
	KeyPWADismissed   = "pwaDismissed"
	KeyPWAInstalled   = "pwaInstalled"
)

// VideoQuality is the preferred reel rendition
type VideoQuality string

const (
	QualityAuto   VideoQuality = "auto"
	QualityLow    VideoQuality = "low"
	QualityMedium VideoQuality = "medium"
	QualityHigh   VideoQuality = "high"
)

// VideoQualities lists the accepted values in display order
var VideoQualities = []VideoQuality{QualityAuto, QualityLow, QualityMedium, QualityHigh}

// ParseVideoQuality validates q
func ParseVideoQuality(q string) (VideoQuality, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	for _, known := range VideoQualities {
		if string(known) == q {
			return known, nil
		}
	}
	return "", apperrors.Validation("video quality", "must be one of auto, low, medium, high")
}

// Settings exposes typed accessors over a Store
type Settings struct {
	store Store
}

// New wraps store
func New(store Store) *Settings {
	return &Settings{store: store}
}

var (
	defaultSettings *Settings
	defaultOnce     sync.Once
)

// Default returns the process-wide settings backed by the settings file. If the
// file cannot be read, settings fall back to memory for this process.
func Default() *Settings {
	defaultOnce.Do(func() {
		fs, err := OpenFile(config.GetSettingsPath())
		if err != nil {
			logger.Warn("Settings unavailable, using memory", "error", err)
			defaultSettings = New(NewMemoryStore())
			return
		}
		defaultSettings = New(fs)
	})
	return defaultSettings
}

// Store returns the underlying store
func (s *Settings) Store() Store {
	return s.store
}

func (s *Settings) bool(key string) (bool, bool) {
	raw, ok := s.store.Get(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// DataSaver reports whether reel media should be fetched for the active item
// only. The reel-specific key takes precedence over the legacy one.
func (s *Settings) DataSaver() bool {
	if v, ok := s.bool(KeyReelsDataSaver); ok {
		return v
	}
	v, _ := s.bool(KeyDataSaver)
	return v
}

// SetDataSaver stores the flag under both keys
func (s *Settings) SetDataSaver(on bool) error {
	value := strconv.FormatBool(on)
	if err := s.store.Set(KeyDataSaver, value); err != nil {
		return err
	}
	return s.store.Set(KeyReelsDataSaver, value)
}

// VideoQuality returns the stored preference, auto when unset or invalid
func (s *Settings) VideoQuality() VideoQuality {
	raw, ok := s.store.Get(KeyVideoQuality)
	if !ok {
		return QualityAuto
	}
	q, err := ParseVideoQuality(raw)
	if err != nil {
		return QualityAuto
	}
	return q
}

// SetVideoQuality validates and stores q
func (s *Settings) SetVideoQuality(q string) error {
	parsed, err := ParseVideoQuality(q)
	if err != nil {
		return err
	}
	return s.store.Set(KeyVideoQuality, string(parsed))
}

func (s *Settings) PWADismissed() bool {
	v, _ := s.bool(KeyPWADismissed)
	return v
}

func (s *Settings) SetPWADismissed(on bool) error {
	return s.store.Set(KeyPWADismissed, strconv.FormatBool(on))
}

func (s *Settings) PWAInstalled() bool {
	v, _ := s.bool(KeyPWAInstalled)
	return v
}

func (s *Settings) SetPWAInstalled(on bool) error {
	return s.store.Set(KeyPWAInstalled, strconv.FormatBool(on))
}

// Token returns the raw stored token
func (s *Settings) Token() string {
	v, _ := s.store.Get(KeyToken)
	return v
}

// UserID returns the raw stored user id
func (s *Settings) UserID() string {
	v, _ := s.store.Get(KeyUserID)
	return v
}

// SetSession records the token and user id after login
func (s *Settings) SetSession(token, userID string) error {
	if err := s.store.Set(KeyToken, token); err != nil {
		return err
	}
	return s.store.Set(KeyUserID, userID)
}

// ClearSession drops the token and user id
func (s *Settings) ClearSession() error {
	if err := s.store.Delete(KeyToken); err != nil {
		return err
	}
	return s.store.Delete(KeyUserID)
}

// TokenSource adapts the stored token for a session
func (s *Settings) TokenSource() *TokenSource {
	return &TokenSource{settings: s}
}

// TokenSource serves the settings token
type TokenSource struct {
	settings *Settings
}

func (t *TokenSource) Token() (string, error) {
	return t.settings.Token(), nil
}

func (t *TokenSource) Clear() error {
	return t.settings.ClearSession()
}

// All returns every known key with its current value, for display
func (s *Settings) All() map[string]string {
	out := make(map[string]string)
	for _, key := range []string{KeyUserID, KeyDataSaver, KeyReelsDataSaver, KeyVideoQuality, KeyPWADismissed, KeyPWAInstalled} {
		if v, ok := s.store.Get(key); ok {
			out[key] = v
		}
	}
	return out
}

// ResetPreferences deletes every preference and keeps the login
func (s *Settings) ResetPreferences() error {
	for _, key := range []string{KeyDataSaver, KeyReelsDataSaver, KeyVideoQuality, KeyPWADismissed, KeyPWAInstalled} {
		if err := s.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
