package service

import (
	"strconv"

	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/output"
)

// SettingsService shows and changes persisted client preferences
type SettingsService struct {
	app *App
}

func NewSettingsService(app *App) *SettingsService {
	return &SettingsService{app: app}
}

// Show prints the effective preferences
func (ss *SettingsService) Show() error {
	st := ss.app.Settings
	record := map[string]interface{}{
		"data_saver":    st.DataSaver(),
		"video_quality": string(st.VideoQuality()),
		"pwa_dismissed": st.PWADismissed(),
		"pwa_installed": st.PWAInstalled(),
		"logged_in":     ss.app.Session.IsAuthenticated(),
	}
	return output.Record("Settings", record)
}

// SetDataSaver turns reel data saver on or off
func (ss *SettingsService) SetDataSaver(on bool) error {
	if err := ss.app.Settings.SetDataSaver(on); err != nil {
		return err
	}
	output.Success("✓ Data saver %s", onOff(on))
	return nil
}

// SetVideoQuality stores the preferred reel rendition
func (ss *SettingsService) SetVideoQuality(q string) error {
	if err := ss.app.Settings.SetVideoQuality(q); err != nil {
		return err
	}
	output.Success("✓ Video quality set to %s", ss.app.Settings.VideoQuality())
	return nil
}

// Reset restores default preferences. The login is kept.
func (ss *SettingsService) Reset() error {
	if err := ss.app.Settings.ResetPreferences(); err != nil {
		return err
	}
	output.Success("✓ Settings reset")
	return nil
}

// ParseOnOff accepts on/off in addition to strconv's booleans
func ParseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	on, err := strconv.ParseBool(s)
	if err != nil {
		return false, apperrors.Validation("value", "must be on or off")
	}
	return on, nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
